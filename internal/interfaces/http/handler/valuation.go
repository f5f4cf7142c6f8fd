package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/civil"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValuationService is the valuation use case the handler depends on
type ValuationService interface {
	Today() civil.Date
	FinancialYearOf(d civil.Date) appval.FinancialYearResponse
	PresentPurchase(ctx context.Context, purchaseID uuid.UUID, asOf *civil.Date) (*appval.PurchaseValuationResponse, error)
	SummaryForFiscalYear(ctx context.Context, label string) (*appval.SummaryResponse, error)
	SummaryForRange(ctx context.Context, start, end string) ([]appval.SummaryResponse, error)
	ExportFinancialYearCSV(ctx context.Context, label string, w io.Writer) error
}

// ValuationHandler handles valuation and financial-year reporting endpoints
type ValuationHandler struct {
	BaseHandler
	valuationService ValuationService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(valuationService ValuationService) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

// PresentPurchase godoc
// @Summary      Purchase valuation
// @Description  Current value and accumulated depreciation of one purchase record. Stolen and disposed assets report their frozen value.
// @Tags         valuations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase ID"
// @Param        as_of query string false "Valuation date YYYY-MM-DD, default today"
// @Success      200 {object} dto.Response{data=appval.PurchaseValuationResponse}
// @Failure      404 {object} dto.Response
// @Router       /valuations/purchases/{id} [get]
func (h *ValuationHandler) PresentPurchase(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.optionalDateQuery(c, "as_of")
	if !ok {
		return
	}

	v, err := h.valuationService.PresentPurchase(c.Request.Context(), id, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, v)
}

// SummaryForFiscalYear returns the register valuation for a financial year
// @Summary      Financial year summary
// @Tags         valuations
// @Produce      json
// @Security     BearerAuth
// @Param        label path string true "Financial year label, e.g. 2023-24"
// @Success      200 {object} dto.Response{data=appval.SummaryResponse}
// @Failure      400 {object} dto.Response
// @Router       /valuations/financial-years/{label} [get]
func (h *ValuationHandler) SummaryForFiscalYear(c *gin.Context) {
	summary, err := h.valuationService.SummaryForFiscalYear(c.Request.Context(), c.Param("label"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// SummaryForRange returns one summary per financial year between start and end
// @Summary      Financial year range summary
// @Tags         valuations
// @Produce      json
// @Security     BearerAuth
// @Param        start query string true "First financial year label"
// @Param        end query string true "Last financial year label"
// @Success      200 {object} dto.Response{data=[]appval.SummaryResponse}
// @Router       /valuations/financial-years [get]
func (h *ValuationHandler) SummaryForRange(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		h.BadRequest(c, "start and end are required")
		return
	}

	summaries, err := h.valuationService.SummaryForRange(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// ExportFinancialYearCSV streams the financial year summary as a CSV attachment
// @Summary      Export financial year summary
// @Tags         valuations
// @Produce      text/csv
// @Security     BearerAuth
// @Param        label path string true "Financial year label"
// @Success      200 {file} file
// @Router       /valuations/financial-years/{label}/export [get]
func (h *ValuationHandler) ExportFinancialYearCSV(c *gin.Context) {
	label := c.Param("label")

	// Buffered so a failure still produces a JSON error instead of a truncated file
	var buf bytes.Buffer
	if err := h.valuationService.ExportFinancialYearCSV(c.Request.Context(), label, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="asset-valuation-%s.csv"`, label))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// FinancialYearOf returns the financial year containing a date, today by default
// @Summary      Financial year of a date
// @Tags         valuations
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=appval.FinancialYearResponse}
// @Router       /valuations/financial-year-of [get]
func (h *ValuationHandler) FinancialYearOf(c *gin.Context) {
	date, ok := h.optionalDateQuery(c, "date")
	if !ok {
		return
	}
	d := h.valuationService.Today()
	if date != nil {
		d = *date
	}

	h.Success(c, h.valuationService.FinancialYearOf(d))
}
