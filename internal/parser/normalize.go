package parser

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldText strips diacritics and lower-cases.
// All header and free-text comparisons go through this.
func FoldText(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

var documentReplacer = strings.NewReplacer(".", "", "-", "", "/", "", " ", "")

// NormalizeDocument canonicalizes a CPF/CNPJ by stripping punctuation and spaces.
// Empty input yields empty output, which callers treat as "no document".
func NormalizeDocument(s string) string {
	return documentReplacer.Replace(strings.TrimSpace(s))
}

// ParseDecimal parses a number in Brazilian convention: "." is the thousands
// separator and "," the decimal point. Missing or unparsable input yields 0.0.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}

var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate tries the known export date formats in order; the first successful
// parse wins. No match yields ok=false rather than an error so callers can
// decide between skipping the row and failing the request.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
