package commission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LucasTruppel/comissao-project/internal/parser"
)

func mustTable(t *testing.T, input string) *parser.Table {
	t.Helper()
	table, err := parser.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	return table
}

const registryHeader = "Tipo Parceiro;Faixa de Comissão;CNPJ/CPF;Nome/Razão Social;Gestor 01\n"

func TestBuildRegistry_ClassificationAndLinking(t *testing.T) {
	t.Parallel()

	table := mustTable(t, registryHeader+
		"Vendedor;10%;111.222.333-44;Ana - Filial SP;\n"+
		"Contador;5%;555.666.777-88;Bruno Contabilidade;Ana - Filial SP\n"+
		"Contador;-;999.888.777-66;Carlos;Ana\n"+
		"Vendedor;faixa especial;222.333.444-55;Diego;\n"+
		"Vendedor;15%;;Sem Documento;\n")

	cols, err := resolveRegistryColumns(table)
	require.NoError(t, err)

	reg := BuildRegistry(table, cols)

	// display names are truncated at the first " - "
	ana := reg.Sellers["11122233344"]
	require.NotNil(t, ana)
	require.Equal(t, "Ana", ana.Nome)

	// a seller without a resolvable rate is kept
	require.NotNil(t, reg.Sellers["22233344455"])

	// a contador without a resolvable rate is dropped entirely
	require.NotContains(t, reg.Contadores, "99988877766")

	// rows without a document never become partners
	require.Len(t, reg.Sellers, 2)

	// gestor names go through the same truncation before matching
	require.Equal(t, "11122233344", reg.ContadorToSeller["55566677788"])
	require.Len(t, ana.Contadores, 1)
	require.Equal(t, "Bruno Contabilidade", ana.Contadores[0].Nome)
}

func TestBuildRegistry_UnmatchedGestorLeavesContadorUnlinked(t *testing.T) {
	t.Parallel()

	table := mustTable(t, registryHeader+
		"Vendedor;10%;111.222.333-44;Ana;\n"+
		"Contador;5%;555.666.777-88;Bruno;Gestora Inexistente\n")

	cols, err := resolveRegistryColumns(table)
	require.NoError(t, err)

	reg := BuildRegistry(table, cols)

	require.Contains(t, reg.Contadores, "55566677788")
	require.NotContains(t, reg.ContadorToSeller, "55566677788")
	require.Empty(t, reg.Sellers["11122233344"].Contadores)
}

func TestResolveRegistryColumns_Missing(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "Tipo Parceiro;CNPJ/CPF\nVendedor;123\n")

	_, err := resolveRegistryColumns(table)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Message, "Faixa de Comissão")
	require.Contains(t, ve.Message, "Gestor 01")
}

func TestFindRenewalPartner(t *testing.T) {
	t.Parallel()

	table := mustTable(t, registryHeader+
		"Vendedor;10%;111.222.333-44;Ana;\n"+
		"Vendedor;2%;34151313001;Renova - Matriz;\n")

	cols, err := resolveRegistryColumns(table)
	require.NoError(t, err)

	info := findRenewalPartner(table, cols, "34151313001")
	require.NotNil(t, info)
	require.Equal(t, "Renova", info.Nome)
	require.True(t, info.HasRate)
	require.InDelta(t, 0.02, info.Rate, 1e-12)

	require.Nil(t, findRenewalPartner(table, cols, "00000000000"))
}
