package commission

import (
	"strings"
	"time"

	"github.com/LucasTruppel/comissao-project/internal/model"
	"github.com/LucasTruppel/comissao-project/internal/parser"
)

// Skip reasons for rows that contribute nothing. Rows are dropped without
// diagnostics, but the engine counts every reason so tests and the run
// history can see how much of an export was actually covered.
const (
	skipNotPaid         = "status_not_paid"
	skipUnparsableDate  = "date_unparsable"
	skipOutOfRange      = "date_out_of_range"
	skipAmount          = "amount_not_positive"
	skipNoDocument      = "missing_seller_document"
	skipUnknownDocument = "unknown_seller_document"
	skipUnlinked        = "contador_without_sponsor"
	skipContadorRate    = "contador_rate_unresolved"
	skipSellerRate      = "seller_rate_unresolved"
)

// attributor applies the per-row filter chain and resolves the one or two
// commission recipients of each sales row.
type attributor struct {
	registry *Registry
	renewal  *renewalInfo

	// normalized document of the configured renewal partner
	renewalDoc string

	start time.Time
	end   time.Time
}

// dayOf truncates a sale timestamp to calendar-day granularity; the request
// window is a closed interval over days, so a sale at any hour of the end
// date still falls inside it.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// processRow attributes one sales row. It returns "" when the row produced
// sale lines, or the reason it was dropped. Dropping is the normal outcome
// for heterogeneous exports and is never an error.
func (a *attributor) processRow(row parser.Row, cols salesColumns) string {
	if !strings.EqualFold(row.Get(cols.StatusFin), "PAGO") {
		return skipNotPaid
	}

	saleDate, ok := parser.ParseDate(row.Get(cols.DataVenda))
	if !ok {
		return skipUnparsableDate
	}
	saleDay := dayOf(saleDate)
	if saleDay.Before(a.start) || saleDay.After(a.end) {
		return skipOutOfRange
	}

	valorVenda := parser.ParseDecimal(row.Get(cols.ValorVenda))
	if valorVenda <= 0 {
		return skipAmount
	}

	docVendedor := row.Get(cols.DocVendedor)
	if docVendedor == "" {
		return skipNoDocument
	}
	doc := parser.NormalizeDocument(docVendedor)

	// Renewal detection. Sales made by the renewal partner itself never
	// count as renewals.
	isRenovacao := false
	comissaoRenovacao := 0.0
	if a.renewal != nil && a.renewal.HasRate && doc != a.renewalDoc {
		isRenovacao = a.isRenewalSale(row, cols)
		if isRenovacao {
			comissaoRenovacao = valorVenda * a.renewal.Rate
		}
	}

	sale := model.Sale{
		NumeroPedido:      row.Get(cols.NumeroPedido),
		NumeroProtocolo:   row.Get(cols.NumeroProtocolo),
		ValorVenda:        valorVenda,
		IsRenovacao:       isRenovacao,
		ComissaoRenovacao: comissaoRenovacao,
		Produto:           getOptional(row, cols.Produto),
		Cliente:           getOptional(row, cols.Cliente),
		DocCliente:        getOptional(row, cols.DocCliente),
	}

	if contador, ok := a.registry.Contadores[doc]; ok {
		return a.attributeViaContador(contador, doc, sale)
	}
	if seller, ok := a.registry.Sellers[doc]; ok {
		return attributeToSeller(seller, sale)
	}
	return skipUnknownDocument
}

// attributeViaContador handles a seller-of-record that is a contador: the
// sale pays both the contador and its sponsoring seller. Both rates must
// resolve before either line is appended, so a shared sale never shows up on
// only one of the two.
func (a *attributor) attributeViaContador(contador *model.Contador, doc string, sale model.Sale) string {
	sellerDoc, ok := a.registry.ContadorToSeller[doc]
	if !ok {
		return skipUnlinked
	}
	seller, ok := a.registry.Sellers[sellerDoc]
	if !ok {
		return skipUnlinked
	}

	contadorRate, ok := ParseRate(contador.FaixaComissao)
	if !ok {
		return skipContadorRate
	}
	sellerRate, ok := ParseRate(seller.FaixaComissao)
	if !ok {
		return skipSellerRate
	}

	addCommission(contador, sale, contadorRate)
	addCommission(seller, sale, sellerRate)
	return ""
}

func attributeToSeller(seller *model.Seller, sale model.Sale) string {
	rate, ok := ParseRate(seller.FaixaComissao)
	if !ok {
		return skipSellerRate
	}
	addCommission(seller, sale, rate)
	return ""
}

// addCommission finishes a sale line for one recipient: the commission is
// computed from that recipient's own rate, so mirrored lines on a contador
// and its sponsor carry different amounts.
func addCommission(r model.Recipient, sale model.Sale, rate float64) {
	sale.Comissao = sale.ValorVenda * rate
	r.AddSale(sale)
}

// isRenewalSale reports whether the order-creator username contains the
// renewal partner's truncated name, accent and case insensitively. The
// un-anchored substring match is the documented contract; short partner
// names can in principle false-positive and that is accepted as-is.
func (a *attributor) isRenewalSale(row parser.Row, cols salesColumns) bool {
	if cols.UsuarioCriacao == "" {
		return false
	}
	usuario := row.Get(cols.UsuarioCriacao)
	if usuario == "" || a.renewal.Nome == "" {
		return false
	}
	return strings.Contains(parser.FoldText(usuario), parser.FoldText(a.renewal.Nome))
}

func getOptional(row parser.Row, column string) string {
	if column == "" {
		return ""
	}
	return row.Get(column)
}
