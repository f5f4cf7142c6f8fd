package handler

import (
	"net/http"
	"testing"

	"cloud.google.com/go/civil"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var rateHandlerToday = civil.Date{Year: 2024, Month: 6, Day: 15}

func setupRateRouter(svc *MockRateService) *gin.Engine {
	r := newTestRouter(uuid.New(), "ADMIN")
	h := NewDepreciationRateHandler(svc, func() civil.Date { return rateHandlerToday })
	r.POST("/depreciation-rates", h.Create)
	r.GET("/depreciation-rates", h.List)
	r.GET("/depreciation-rates/resolve", h.Resolve)
	r.GET("/depreciation-rates/:id", h.GetByID)
	r.PUT("/depreciation-rates/:id", h.Update)
	r.DELETE("/depreciation-rates/:id", h.Delete)
	r.GET("/categories/:id/depreciation-rates/:label", h.ForCategoryAndFinancialYear)
	return r
}

func rateBody(categoryID uuid.UUID) map[string]any {
	return map[string]any{
		"category_id":             categoryID.String(),
		"financial_year":          "2024-25",
		"depreciation_percentage": "15",
		"depreciation_method":     "DECLINING_BALANCE",
		"effective_from":          "2024-04-01",
	}
}

func TestDepreciationRateHandler_Create(t *testing.T) {
	categoryID := uuid.New()

	t.Run("success reports overlapping rates", func(t *testing.T) {
		svc := new(MockRateService)
		conflict := uuid.New()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req appval.RateRequest) bool {
			return req.CategoryID == categoryID &&
				req.Method == "DECLINING_BALANCE" &&
				req.Percentage.Equal(decimal.NewFromInt(15)) &&
				req.EffectiveFrom == civil.Date{Year: 2024, Month: 4, Day: 1} &&
				req.EffectiveTo == nil
		})).Return(&appval.RateWriteResponse{
			Rate:      appval.RateResponse{ID: uuid.New(), CategoryID: categoryID, FinancialYear: "2024-25"},
			Conflicts: []uuid.UUID{conflict},
		}, nil)

		w := doRequest(setupRateRouter(svc), http.MethodPost, "/depreciation-rates", rateBody(categoryID))

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, []any{conflict.String()}, data["conflicts"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown method", func(t *testing.T) {
		svc := new(MockRateService)
		body := rateBody(categoryID)
		body["depreciation_method"] = "SUM_OF_YEARS"

		w := doRequest(setupRateRouter(svc), http.MethodPost, "/depreciation-rates", body)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("malformed financial year label", func(t *testing.T) {
		svc := new(MockRateService)
		body := rateBody(categoryID)
		body["financial_year"] = "2024-26"

		w := doRequest(setupRateRouter(svc), http.MethodPost, "/depreciation-rates", body)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("rate out of range", func(t *testing.T) {
		svc := new(MockRateService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_RATE", "depreciation percentage must be between 0 and 100"))

		body := rateBody(categoryID)
		body["depreciation_percentage"] = "120"
		w := doRequest(setupRateRouter(svc), http.MethodPost, "/depreciation-rates", body)
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_RATE")
	})
}

func TestDepreciationRateHandler_UpdateAndDelete(t *testing.T) {
	id := uuid.New()
	categoryID := uuid.New()

	t.Run("update", func(t *testing.T) {
		svc := new(MockRateService)
		svc.On("Update", mock.Anything, id, mock.AnythingOfType("valuation.RateRequest")).
			Return(&appval.RateWriteResponse{Rate: appval.RateResponse{ID: id, Version: 2}}, nil)

		w := doRequest(setupRateRouter(svc), http.MethodPut, "/depreciation-rates/"+id.String(), rateBody(categoryID))
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockRateService)
		svc.On("Delete", mock.Anything, id).Return(nil)

		w := doRequest(setupRateRouter(svc), http.MethodDelete, "/depreciation-rates/"+id.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		svc := new(MockRateService)
		svc.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w := doRequest(setupRateRouter(svc), http.MethodGet, "/depreciation-rates/"+id.String(), nil)
		assertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}

func TestDepreciationRateHandler_List(t *testing.T) {
	t.Run("filters", func(t *testing.T) {
		svc := new(MockRateService)
		categoryID := uuid.New()
		svc.On("List", mock.Anything, mock.MatchedBy(func(f appval.RateListFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID &&
				f.AssetType == nil &&
				f.FinancialYear == "2023-24" &&
				f.Page == 1 && f.PageSize == defaultPageSize
		})).Return([]appval.RateResponse{{ID: uuid.New()}}, int64(1), nil)

		w := doRequest(setupRateRouter(svc), http.MethodGet,
			"/depreciation-rates?category_id="+categoryID.String()+"&financial_year=2023-24", nil)

		require.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad financial year", func(t *testing.T) {
		svc := new(MockRateService)
		w := doRequest(setupRateRouter(svc), http.MethodGet, "/depreciation-rates?financial_year=FY24", nil)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("bad category id", func(t *testing.T) {
		svc := new(MockRateService)
		w := doRequest(setupRateRouter(svc), http.MethodGet, "/depreciation-rates?category_id=x", nil)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}

func TestDepreciationRateHandler_ForCategoryAndFinancialYear(t *testing.T) {
	svc := new(MockRateService)
	categoryID := uuid.New()
	svc.On("ForCategoryAndFinancialYear", mock.Anything, categoryID, "2023-24").
		Return([]appval.RateResponse{{ID: uuid.New(), FinancialYear: "2023-24"}}, nil)

	w := doRequest(setupRateRouter(svc), http.MethodGet, "/categories/"+categoryID.String()+"/depreciation-rates/2023-24", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)
	svc.AssertExpectations(t)
}

func TestDepreciationRateHandler_Resolve(t *testing.T) {
	categoryID := uuid.New()

	t.Run("defaults to today", func(t *testing.T) {
		svc := new(MockRateService)
		svc.On("Resolve", mock.Anything, categoryID, "", rateHandlerToday).
			Return(&appval.RateResolutionResponse{CategoryID: categoryID, Date: rateHandlerToday}, nil)

		w := doRequest(setupRateRouter(svc), http.MethodGet, "/depreciation-rates/resolve?category_id="+categoryID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, false, data["found"])
		assert.Equal(t, "2024-06-15", data["date"])
		svc.AssertExpectations(t)
	})

	t.Run("explicit date and asset type", func(t *testing.T) {
		svc := new(MockRateService)
		on := civil.Date{Year: 2023, Month: 3, Day: 31}
		svc.On("Resolve", mock.Anything, categoryID, "LAPTOP", on).
			Return(&appval.RateResolutionResponse{CategoryID: categoryID, AssetType: "LAPTOP", Date: on, Found: true}, nil)

		w := doRequest(setupRateRouter(svc), http.MethodGet,
			"/depreciation-rates/resolve?category_id="+categoryID.String()+"&asset_type=LAPTOP&date=2023-03-31", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("category required", func(t *testing.T) {
		svc := new(MockRateService)
		w := doRequest(setupRateRouter(svc), http.MethodGet, "/depreciation-rates/resolve", nil)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}
