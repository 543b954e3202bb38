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

// SavingsGoalHandler handles savings goal requests
type SavingsGoalHandler struct {
	goalService services.SavingsGoalServicer
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler
func NewSavingsGoalHandler(goalService services.SavingsGoalServicer) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the goal creation payload
type CreateGoalRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Target     float64 `json:"target" binding:"required,gt=0"`
	TargetDate string  `json:"targetDate" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateGoalRequest represents the goal edit payload. Omitted fields keep
// their existing values; an explicit empty targetDate clears the deadline.
// A positive amount adds to the goal's saved progress instead of editing it.
type UpdateGoalRequest struct {
	Name       string  `json:"name" binding:"omitempty,max=100"`
	Target     float64 `json:"target" binding:"omitempty,gt=0"`
	TargetDate *string `json:"targetDate" binding:"omitempty"`
	Amount     float64 `json:"amount" binding:"omitempty,gt=0"`
}

// AddToGoalRequest represents the add-progress payload
type AddToGoalRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GoalResponse represents a savings goal in API responses
type GoalResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Target     float64 `json:"target"`
	Current    float64 `json:"current"`
	TargetDate *string `json:"targetDate"`
}

func newGoalResponse(g *models.SavingsGoal) GoalResponse {
	resp := GoalResponse{
		ID:      g.ID,
		Name:    g.Name,
		Target:  g.Target.InexactFloat64(),
		Current: g.Current.InexactFloat64(),
	}
	if g.TargetDate != nil {
		d := g.TargetDate.Format("2006-01-02")
		resp.TargetDate = &d
	}
	return resp
}

func parseGoalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid targetDate")
	}
	return &d, nil
}

// List returns the user's savings goals
// @Summary     List savings goals
// @Description Get all savings goals for the authenticated user, newest first
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} GoalResponse "User savings goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /savings-goals [get]
func (h *SavingsGoalHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, newGoalResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": resp})
}

// Create stores a new savings goal
// @Summary     Create savings goal
// @Description Create a savings goal starting at zero progress
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal data"
// @Success     201 {object} GoalResponse "Created goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /savings-goals [post]
func (h *SavingsGoalHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseGoalDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(userID, req.Name, decimal.NewFromFloat(req.Target), targetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": newGoalResponse(goal)})
}

// AddProgress adds an amount to a goal's saved progress
// @Summary     Add to savings goal
// @Description Add an amount to the goal's saved progress
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Param       request body AddToGoalRequest true "Amount to add"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id}/add [post]
func (h *SavingsGoalHandler) AddProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddToGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.AddToGoal(userID, goalID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": newGoalResponse(goal)})
}

// Update edits a goal's name, target, and deadline, or adds to its progress
// @Summary     Update savings goal
// @Description Edit a goal; omitted fields keep their existing values. A positive amount adds to the saved progress instead.
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id} [put]
func (h *SavingsGoalHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// The web client sends progress additions through this endpoint; a
	// positive amount takes precedence over field edits.
	if req.Amount > 0 {
		goal, err := h.goalService.AddToGoal(userID, goalID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goal": newGoalResponse(goal)})
		return
	}

	var targetDate *time.Time
	clearTargetDate := false
	if req.TargetDate != nil {
		if *req.TargetDate == "" {
			clearTargetDate = true
		} else {
			targetDate, err = parseGoalDate(*req.TargetDate)
			if err != nil {
				respondWithError(c, err)
				return
			}
		}
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, req.Name, decimal.NewFromFloat(req.Target), targetDate, clearTargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": newGoalResponse(goal)})
}

// Delete removes a savings goal
// @Summary     Delete savings goal
// @Description Delete a goal owned by the user
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
