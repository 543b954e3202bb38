package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ally/internal/errors"
	"ally/internal/services"
)

// BudgetHandler handles budget-related requests
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpdateBudgetRequest represents the budget settings payload
type UpdateBudgetRequest struct {
	TotalAllowance    float64 `json:"totalAllowance" binding:"required,gt=0"`
	PeriodType        string  `json:"periodType" binding:"omitempty,period_type"`
	NeedsAllocation   int     `json:"needsAllocation" binding:"min=0,max=100"`
	WantsAllocation   int     `json:"wantsAllocation" binding:"min=0,max=100"`
	SavingsAllocation int     `json:"savingsAllocation" binding:"min=0,max=100"`
}

// Get returns the user's budget snapshot
// @Summary     Get budget
// @Description Get the current budget, applying any pending period rollover. A default budget is created on first fetch.
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetSnapshot "Current budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// Update stores the user's budget settings
// @Summary     Update budget
// @Description Set allowance, period type, and bucket allocations. Allocations must not sum past 100.
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateBudgetRequest true "Budget settings"
// @Success     200 {object} services.BudgetSnapshot "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or allocations exceed 100"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, services.BudgetUpdate{
		TotalAllowance:    decimal.NewFromFloat(req.TotalAllowance),
		PeriodType:        req.PeriodType,
		NeedsAllocation:   req.NeedsAllocation,
		WantsAllocation:   req.WantsAllocation,
		SavingsAllocation: req.SavingsAllocation,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
