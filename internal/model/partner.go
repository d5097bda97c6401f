package model

// Sale is one commission line attributed to a partner. It is immutable once
// created; a shared sale yields one Sale per recipient, each with its own
// commission amount.
type Sale struct {
	NumeroPedido      string  `json:"numero_pedido"`
	NumeroProtocolo   string  `json:"numero_protocolo"`
	ValorVenda        float64 `json:"valor_venda"`
	Comissao          float64 `json:"comissao"`
	IsRenovacao       bool    `json:"is_renovacao"`
	ComissaoRenovacao float64 `json:"comissao_renovacao"`
	Produto           string  `json:"produto"`
	Cliente           string  `json:"cliente"`
	DocCliente        string  `json:"doc_cliente"`
}

// Partner carries the fields common to both recipient variants.
type Partner struct {
	Nome                   string  `json:"nome"`
	CnpjCpf                string  `json:"cnpj_cpf"`
	FaixaComissao          string  `json:"faixa_comissao"`
	TotalVendas            float64 `json:"total_vendas"`
	TotalComissao          float64 `json:"total_comissao"`
	TotalComissaoRenovacao float64 `json:"total_comissao_renovacao"`
	Vendas                 []Sale  `json:"vendas"`
}

// AddSale appends a sale line and updates the running totals.
func (p *Partner) AddSale(s Sale) {
	p.Vendas = append(p.Vendas, s)
	p.TotalVendas += s.ValorVenda
	p.TotalComissao += s.Comissao
	if s.IsRenovacao {
		p.TotalComissaoRenovacao += s.ComissaoRenovacao
	}
}

// Recipient is the capability shared by both partner variants during
// attribution.
type Recipient interface {
	AddSale(Sale)
}

// Seller is the primary commission recipient. Contadores holds the
// accountants it sponsors; its own totals never include theirs.
type Seller struct {
	Partner
	Contadores []*Contador `json:"contadores"`
}

// Contador is an accountant-intermediary sponsored by exactly one Seller.
type Contador struct {
	Partner
}

// RenewalPartner is a derived projection over renewal-flagged sales, not a
// stored partner. TotalVendas sums face sale values while TotalComissao sums
// the renewal-specific commission.
type RenewalPartner struct {
	Nome          string    `json:"nome"`
	CnpjCpf       string    `json:"cnpj_cpf"`
	FaixaComissao string    `json:"faixa_comissao"`
	TotalVendas   float64   `json:"total_vendas"`
	TotalComissao float64   `json:"total_comissao"`
	Sellers       []*Seller `json:"sellers"`
}

// Stats summarizes one engine run. Dropped rows are never reported
// individually, but their counts are kept for logging and the run history.
type Stats struct {
	RowsTotal       int            `json:"rows_total"`
	RowsAttributed  int            `json:"rows_attributed"`
	RowsDropped     int            `json:"rows_dropped"`
	DroppedByReason map[string]int `json:"dropped_by_reason"`
}

// Result is the complete response tree for one reconciliation request.
type Result struct {
	Sellers           []*Seller       `json:"sellers"`
	ParceiroRenovacao *RenewalPartner `json:"parceiro_renovacao"`
	Stats             Stats           `json:"-"`
}
