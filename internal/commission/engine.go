package commission

import (
	"time"

	"github.com/LucasTruppel/comissao-project/internal/model"
	"github.com/LucasTruppel/comissao-project/internal/parser"
)

// Engine computes the commission tree for one request. It holds only
// configuration; every Calculate call builds its own registry and attribution
// state, so a single Engine is safe for concurrent requests.
type Engine struct {
	renewalPartnerDocument string
}

// NewEngine creates an engine. renewalPartnerDocument is the normalized
// document of the designated renewal partner; empty disables the renewal
// rollup entirely.
func NewEngine(renewalPartnerDocument string) *Engine {
	return &Engine{renewalPartnerDocument: parser.NormalizeDocument(renewalPartnerDocument)}
}

// DateRange is a closed interval over calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates the request period. Both bounds must parse and
// start must not come after end.
func ParseDateRange(dataInicio, dataFim string) (DateRange, error) {
	start, okStart := parser.ParseDate(dataInicio)
	end, okEnd := parser.ParseDate(dataFim)
	if !okStart || !okEnd {
		return DateRange{}, validationErrorf("Datas inválidas. Use o formato DD/MM/YYYY")
	}
	start = dayOf(start)
	end = dayOf(end)
	if start.After(end) {
		return DateRange{}, validationErrorf("Data de início deve ser anterior à data de fim")
	}
	return DateRange{Start: start, End: end}, nil
}

// Calculate runs the full pipeline: resolve columns, build the partner
// registry, attribute every sales row and aggregate the result tree.
//
// Column-resolution failures return a *ValidationError; attribution never
// fails, it only drops rows, and the drop counts land in Result.Stats.
func (e *Engine) Calculate(sales, registry *parser.Table, period DateRange) (*model.Result, error) {
	salesCols, err := resolveSalesColumns(sales)
	if err != nil {
		return nil, err
	}
	registryCols, err := resolveRegistryColumns(registry)
	if err != nil {
		return nil, err
	}

	reg := BuildRegistry(registry, registryCols)

	var renewal *renewalInfo
	if e.renewalPartnerDocument != "" {
		renewal = findRenewalPartner(registry, registryCols, e.renewalPartnerDocument)
	}

	attr := &attributor{
		registry:   reg,
		renewal:    renewal,
		renewalDoc: e.renewalPartnerDocument,
		start:      period.Start,
		end:        period.End,
	}

	stats := model.Stats{DroppedByReason: make(map[string]int)}
	for _, row := range sales.Rows {
		stats.RowsTotal++
		if reason := attr.processRow(row, salesCols); reason != "" {
			stats.RowsDropped++
			stats.DroppedByReason[reason]++
			continue
		}
		stats.RowsAttributed++
	}

	sellers := filterResults(reg)

	var renewalNode *model.RenewalPartner
	if renewal != nil && renewal.HasRate {
		renewalNode = buildRenewalNode(sellers, renewal)
	}

	return &model.Result{
		Sellers:           sellers,
		ParceiroRenovacao: renewalNode,
		Stats:             stats,
	}, nil
}
