package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasTruppel/comissao-project/internal/commission"
	"github.com/LucasTruppel/comissao-project/internal/model"
	"github.com/LucasTruppel/comissao-project/internal/parser"
	"github.com/LucasTruppel/comissao-project/internal/store"
)

// Calculate computes seller and contador commissions for a date window.
// POST /api/comissao/calcular
//
// Multipart form: vendas_file, parceiros_file (CSV ";"-delimited or XLSX),
// data_inicio and data_fim (DD/MM/YYYY).
func (h *Handler) Calculate(c *gin.Context) {
	vendasFile, err := c.FormFile("vendas_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo de vendas não encontrado"})
		return
	}
	parceirosFile, err := c.FormFile("parceiros_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo de parceiros não encontrado"})
		return
	}

	dataInicio := c.PostForm("data_inicio")
	dataFim := c.PostForm("data_fim")

	period, err := commission.ParseDateRange(dataInicio, dataFim)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendas, err := readTable(vendasFile)
	if err != nil {
		h.respondTableError(c, "vendas", err)
		return
	}
	parceiros, err := readTable(parceirosFile)
	if err != nil {
		h.respondTableError(c, "parceiros", err)
		return
	}

	start := time.Now()
	result, err := h.calculate(vendas, parceiros, period)
	if err != nil {
		var ve *commission.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
			return
		}
		h.logger.Error().Err(err).Msg("commission calculation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocorreu um erro inesperado ao processar os arquivos"})
		return
	}
	duration := time.Since(start)

	h.recordRun(result, dataInicio, dataFim, duration)

	h.logger.Info().
		Str("data_inicio", dataInicio).
		Str("data_fim", dataFim).
		Int("sellers", len(result.Sellers)).
		Int("rows_total", result.Stats.RowsTotal).
		Int("rows_dropped", result.Stats.RowsDropped).
		Interface("dropped_by_reason", result.Stats.DroppedByReason).
		Dur("duration", duration).
		Msg("commission run")

	c.JSON(http.StatusOK, result)
}

// calculate shields the request from engine panics: anything unanticipated
// surfaces as a generic internal failure, never a broken response.
func (h *Handler) calculate(vendas, parceiros *parser.Table, period commission.DateRange) (result *model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic during calculation: %v", r)
		}
	}()
	return h.engine.Calculate(vendas, parceiros, period)
}

func (h *Handler) recordRun(result *model.Result, dataInicio, dataFim string, duration time.Duration) {
	if h.store == nil {
		return
	}

	run := store.Run{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		DataInicio:  dataInicio,
		DataFim:     dataFim,
		Sellers:     len(result.Sellers),
		RowsTotal:   result.Stats.RowsTotal,
		RowsDropped: result.Stats.RowsDropped,
		DurationMs:  duration.Milliseconds(),
	}
	for _, seller := range result.Sellers {
		run.Contadores += len(seller.Contadores)
		run.TotalVendas += seller.TotalVendas
		run.TotalComissao += seller.TotalComissao
		for _, contador := range seller.Contadores {
			run.TotalComissao += contador.TotalComissao
		}
	}

	if err := h.store.InsertRun(run); err != nil {
		h.logger.Warn().Err(err).Msg("failed to record run history")
	}
}

func (h *Handler) respondTableError(c *gin.Context, name string, err error) {
	if errors.Is(err, parser.ErrNoHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Arquivo de %s sem linha de cabeçalho", name)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Não foi possível ler o arquivo de %s", name)})
}

func readTable(fileHeader *multipart.FileHeader) (*parser.Table, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		return parser.ReadXLSX(file)
	}
	return parser.ReadCSV(file)
}
