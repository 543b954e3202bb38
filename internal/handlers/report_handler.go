package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ally/internal/services"
)

// ReportHandler serves the read-only analytics endpoints
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport returns the spending report
// @Summary     Get spending report
// @Description Get the spending report for a week or month period
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Report period" Enums(week, month) default(month)
// @Success     200 {object} services.Report "Spending report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period := c.DefaultQuery("period", "month")
	if period != "week" {
		period = "month"
	}

	report, err := h.reportService.GetReport(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetDashboard returns the landing-page summary
// @Summary     Get dashboard
// @Description Get the dashboard summary: balance, budget usage, recent expenses, and the featured savings goal
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.reportService.GetDashboard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetDiscipline returns the discipline view
// @Summary     Get discipline score
// @Description Get spending discipline alerts, score, rules checklist, and streak
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Discipline "Discipline view"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /discipline [get]
func (h *ReportHandler) GetDiscipline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	discipline, err := h.reportService.GetDiscipline(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, discipline)
}
