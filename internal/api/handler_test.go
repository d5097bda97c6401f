package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/LucasTruppel/comissao-project/internal/commission"
	"github.com/LucasTruppel/comissao-project/internal/model"
	"github.com/LucasTruppel/comissao-project/internal/store"
)

const (
	testRegistryCSV = "Tipo Parceiro;Faixa de Comissão;CNPJ/CPF;Nome/Razão Social;Gestor 01\n" +
		"Vendedor;10%;111.222.333-44;Ana;\n" +
		"Contador;5%;555.666.777-88;Bruno;Ana\n"

	testSalesCSV = "Nº Pedido;Nº Protocolo;Data Venda;Valor Venda;Status Financeiro;Doc. Vendedor\n" +
		"P1;PR1;15/06/2024;1.000,00;PAGO;555.666.777-88\n"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	runStore, err := store.New(filepath.Join(t.TempDir(), "comissao.db"))
	require.NoError(t, err)
	t.Cleanup(func() { runStore.Close() })

	handler := NewHandler(commission.NewEngine("34151313001"), runStore, zerolog.Nop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func calcRequest(t *testing.T, vendas, parceiros, dataInicio, dataFim string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	vendasPart, err := writer.CreateFormFile("vendas_file", "vendas.csv")
	require.NoError(t, err)
	_, err = vendasPart.Write([]byte(vendas))
	require.NoError(t, err)

	parceirosPart, err := writer.CreateFormFile("parceiros_file", "parceiros.csv")
	require.NoError(t, err)
	_, err = parceirosPart.Write([]byte(parceiros))
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("data_inicio", dataInicio))
	require.NoError(t, writer.WriteField("data_fim", dataFim))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/comissao/calcular", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCalculate_FullFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, calcRequest(t, testSalesCSV, testRegistryCSV, "01/06/2024", "30/06/2024"))
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Sellers, 1)
	require.Equal(t, "Ana", result.Sellers[0].Nome)
	require.Len(t, result.Sellers[0].Contadores, 1)
	require.InDelta(t, 100.0, result.Sellers[0].TotalComissao, 1e-9)
	require.InDelta(t, 50.0, result.Sellers[0].Contadores[0].TotalComissao, 1e-9)

	// the run lands in the history
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Runs []store.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Runs, 1)
	require.Equal(t, "01/06/2024", listing.Runs[0].DataInicio)
	require.Equal(t, 1, listing.Runs[0].Sellers)
	require.Equal(t, 1, listing.Runs[0].Contadores)
}

func TestCalculate_InvalidDates(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, calcRequest(t, testSalesCSV, testRegistryCSV, "2024/06/01", "30/06/2024"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "DD/MM/YYYY")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, calcRequest(t, testSalesCSV, testRegistryCSV, "30/06/2024", "01/06/2024"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculate_MissingColumns(t *testing.T) {
	router := newTestRouter(t)

	badSales := "Nº Pedido;Data Venda\nP1;15/06/2024\n"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, calcRequest(t, badSales, testRegistryCSV, "01/06/2024", "30/06/2024"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Valor Venda")
}

func TestCalculate_MissingFile(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("data_inicio", "01/06/2024"))
	require.NoError(t, writer.WriteField("data_fim", "30/06/2024"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/comissao/calcular", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculate_HeaderlessFile(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, calcRequest(t, "", testRegistryCSV, "01/06/2024", "30/06/2024"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cabeçalho")
}

func TestGetStatus(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Zero(t, status.TotalRuns)
}
