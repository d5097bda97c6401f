package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrNoHeader indicates a tabular input without a usable header row.
var ErrNoHeader = errors.New("tabular input has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is a single data row keyed by the original header text.
type Row map[string]string

// Get returns the trimmed cell value for a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Table is an ordered tabular dataset with accent/case-insensitive
// header lookup.
type Table struct {
	headers []string
	byFold  map[string]string
	Rows    []Row
}

// Headers returns the original header names in file order.
func (t *Table) Headers() []string {
	return t.headers
}

// Header resolves a column by folded name and returns the original header
// text, so that "Nº Pedido", "nº pedido" and "Nº  Pedido " all match.
func (t *Table) Header(name string) (string, bool) {
	original, ok := t.byFold[FoldText(name)]
	return original, ok
}

// ReadCSV ingests a ";"-delimited CSV export. A leading UTF-8 BOM is
// stripped; exports saved as Windows-1252 are transparently re-decoded.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv input: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv input: %w", err)
	}

	return newTable(records)
}

// ReadXLSX ingests the first sheet of an XLSX workbook using the same table
// contract as ReadCSV.
func ReadXLSX(r io.Reader) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx input: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}

	return newTable(records)
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	headers := records[0]
	byFold := make(map[string]string, len(headers))
	empty := true
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		empty = false
		folded := FoldText(h)
		if _, exists := byFold[folded]; !exists {
			byFold[folded] = h
		}
	}
	if empty {
		return nil, ErrNoHeader
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &Table{headers: headers, byFold: byFold, Rows: rows}, nil
}
