package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ally/internal/errors"
	"ally/internal/models"
	"ally/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the expense creation payload
type CreateExpenseRequest struct {
	Category string  `json:"category" binding:"required,max=100"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required,datetime=2006-01-02"`
	Note     string  `json:"note" binding:"max=500"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID       uint    `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

func newExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Category: e.Category,
		Amount:   e.Amount.InexactFloat64(),
		Date:     e.Date.Format("2006-01-02"),
		Note:     e.Note,
	}
}

// List returns the user's expenses
// @Summary     List expenses
// @Description Get all expenses for the authenticated user, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ExpenseResponse "User expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetUserExpenses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, newExpenseResponse(&expenses[i]))
	}
	c.JSON(http.StatusOK, gin.H{"expenses": resp})
}

// Create logs a new expense
// @Summary     Create expense
// @Description Log a new expense; budget spend aggregates are refreshed
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense data"
// @Success     201 {object} ExpenseResponse "Created expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.Category, decimal.NewFromFloat(req.Amount), date, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": newExpenseResponse(expense)})
}

// Delete removes an expense
// @Summary     Delete expense
// @Description Delete an expense owned by the user; budget spend aggregates are refreshed
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
