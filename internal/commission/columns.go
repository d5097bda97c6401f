package commission

import (
	"fmt"
	"strings"

	"github.com/LucasTruppel/comissao-project/internal/parser"
)

// ValidationError is a request-level failure: bad dates, missing headers or
// missing required columns. It stops processing before any attribution work
// and is reported to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// salesColumns holds the resolved original header names of the sales export.
// Optional columns resolve to "" when absent.
type salesColumns struct {
	NumeroPedido    string
	NumeroProtocolo string
	DataVenda       string
	ValorVenda      string
	StatusFin       string
	DocVendedor     string
	UsuarioCriacao  string
	Produto         string
	Cliente         string
	DocCliente      string
}

// registryColumns holds the resolved original header names of the partner
// registry export. All of them are required.
type registryColumns struct {
	TipoParceiro  string
	FaixaComissao string
	CnpjCpf       string
	NomeRazao     string
	Gestor        string
}

func resolveSalesColumns(table *parser.Table) (salesColumns, error) {
	var cols salesColumns
	var missing []string

	required := []struct {
		header string
		target *string
	}{
		{"Nº Pedido", &cols.NumeroPedido},
		{"Nº Protocolo", &cols.NumeroProtocolo},
		{"Data Venda", &cols.DataVenda},
		{"Valor Venda", &cols.ValorVenda},
		{"Status Financeiro", &cols.StatusFin},
		{"Doc. Vendedor", &cols.DocVendedor},
	}
	for _, c := range required {
		original, ok := table.Header(c.header)
		if !ok {
			missing = append(missing, c.header)
			continue
		}
		*c.target = original
	}

	// Absence of the order-creator column only disables renewal detection.
	cols.UsuarioCriacao, _ = table.Header("Usuário de Criação do pedido")
	cols.Produto, _ = table.Header("Produto")
	cols.Cliente, _ = table.Header("Cliente")
	cols.DocCliente, _ = table.Header("Doc. Cliente")

	if len(missing) > 0 {
		return cols, validationErrorf("Colunas faltando no arquivo de vendas: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func resolveRegistryColumns(table *parser.Table) (registryColumns, error) {
	var cols registryColumns
	var missing []string

	required := []struct {
		header string
		target *string
	}{
		{"Tipo Parceiro", &cols.TipoParceiro},
		{"Faixa de Comissão", &cols.FaixaComissao},
		{"CNPJ/CPF", &cols.CnpjCpf},
		{"Nome/Razão Social", &cols.NomeRazao},
		{"Gestor 01", &cols.Gestor},
	}
	for _, c := range required {
		original, ok := table.Header(c.header)
		if !ok {
			missing = append(missing, c.header)
			continue
		}
		*c.target = original
	}

	if len(missing) > 0 {
		return cols, validationErrorf("Colunas faltando no arquivo de parceiros: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}
