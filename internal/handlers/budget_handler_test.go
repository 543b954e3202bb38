package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "ally/internal/errors"
	"ally/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	getBudgetFn    func(userID uint) (*services.BudgetSnapshot, error)
	updateBudgetFn func(userID uint, in services.BudgetUpdate) (*services.BudgetSnapshot, error)
}

func (m *mockBudgetService) GetBudget(userID uint) (*services.BudgetSnapshot, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(userID)
	}
	return &services.BudgetSnapshot{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID uint, in services.BudgetUpdate) (*services.BudgetSnapshot, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, in)
	}
	return &services.BudgetSnapshot{}, nil
}

func (m *mockBudgetService) RecalculateSpent(uint) error { return nil }

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetTestRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/budget", handler.Get)
	auth.PUT("/budget", handler.Update)
	return r
}

func TestBudgetHandler_Get(t *testing.T) {
	svc := &mockBudgetService{
		getBudgetFn: func(userID uint) (*services.BudgetSnapshot, error) {
			return &services.BudgetSnapshot{
				TotalAllowance:    2500,
				PeriodType:        "monthly",
				NeedsAllocation:   50,
				WantsAllocation:   30,
				SavingsAllocation: 20,
				AvailableBudget:   2500,
			}, nil
		},
	}
	r := setupBudgetTestRouter(NewBudgetHandler(svc))

	rec := doRequest(r, http.MethodGet, "/budget", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	result := parseJSON(t, rec)
	budget, ok := result["budget"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected budget object, got %v", result)
	}
	if budget["availableBudget"] != float64(2500) {
		t.Errorf("expected availableBudget 2500, got %v", budget["availableBudget"])
	}
	if budget["periodType"] != "monthly" {
		t.Errorf("expected periodType monthly, got %v", budget["periodType"])
	}
}

func TestBudgetHandler_Update(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotUpdate services.BudgetUpdate
		svc := &mockBudgetService{
			updateBudgetFn: func(_ uint, in services.BudgetUpdate) (*services.BudgetSnapshot, error) {
				gotUpdate = in
				return &services.BudgetSnapshot{PeriodType: in.PeriodType}, nil
			},
		}
		r := setupBudgetTestRouter(NewBudgetHandler(svc))

		rec := doRequest(r, http.MethodPut, "/budget",
			`{"totalAllowance":2000,"periodType":"weekly","needsAllocation":50,"wantsAllocation":30,"savingsAllocation":20}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUpdate.PeriodType != "weekly" {
			t.Errorf("expected weekly passed through, got %s", gotUpdate.PeriodType)
		}
		if gotUpdate.NeedsAllocation != 50 {
			t.Errorf("expected needsAllocation 50, got %d", gotUpdate.NeedsAllocation)
		}
	})

	t.Run("rejects unknown period type at binding", func(t *testing.T) {
		r := setupBudgetTestRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, http.MethodPut, "/budget",
			`{"totalAllowance":2000,"periodType":"fortnightly"}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when allocations exceed 100", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(uint, services.BudgetUpdate) (*services.BudgetSnapshot, error) {
				return nil, apperrors.ErrAllocationSum
			},
		}
		r := setupBudgetTestRouter(NewBudgetHandler(svc))

		rec := doRequest(r, http.MethodPut, "/budget",
			`{"totalAllowance":2000,"periodType":"monthly","needsAllocation":60,"wantsAllocation":30,"savingsAllocation":20}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALLOCATION_SUM")
	})

	t.Run("rejects zero allowance", func(t *testing.T) {
		r := setupBudgetTestRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, http.MethodPut, "/budget", `{"totalAllowance":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
