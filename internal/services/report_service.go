package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/models"
)

// reportService builds the read-only analytics views: spending reports,
// the dashboard summary, and the discipline score.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// CategorySlice is one slice of the expenses-by-category breakdown.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DayTrend compares one day's spending against the daily slice of the
// allowance.
type DayTrend struct {
	Day    string  `json:"day"`
	Spent  float64 `json:"spent"`
	Budget float64 `json:"budget"`
}

// BucketComparison compares budgeted vs actual spending for one bucket.
type BucketComparison struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
	Actual   float64 `json:"actual"`
}

// MonthOverview summarizes one month's income vs expenses.
type MonthOverview struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// ReportSummary holds the headline numbers of a report.
type ReportSummary struct {
	TotalExpenses float64 `json:"totalExpenses"`
	AvgDaily      float64 `json:"avgDaily"`
	TopCategory   string  `json:"topCategory"`
}

// Report is the full spending report for a week or month period.
type Report struct {
	ExpensesByCategory []CategorySlice    `json:"expensesByCategory"`
	WeeklyTrend        []DayTrend         `json:"weeklyTrend"`
	BudgetVsActual     []BucketComparison `json:"budgetVsActual"`
	MonthlyOverview    []MonthOverview    `json:"monthlyOverview"`
	Summary            ReportSummary      `json:"summary"`
	Insights           []string           `json:"insights"`
	Recommendations    []string           `json:"recommendations"`
}

// DashboardExpense is a recent expense with a human-readable relative date.
type DashboardExpense struct {
	ID       uint    `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

// DashboardGoal is the featured unfinished savings goal.
type DashboardGoal struct {
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}

// Dashboard is the landing-page summary.
type Dashboard struct {
	Balance        float64            `json:"balance"`
	Allowance      float64            `json:"allowance"`
	Spent          float64            `json:"spent"`
	BudgetUsed     int                `json:"budgetUsed"`
	RecentExpenses []DashboardExpense `json:"recentExpenses"`
	SavingsGoal    *DashboardGoal     `json:"savingsGoal"`
}

// Alert is a discipline warning or praise message.
type Alert struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Category   string `json:"category,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

// Rule is one entry of the discipline checklist.
type Rule struct {
	Rule       string `json:"rule"`
	IsFollowed bool   `json:"isFollowed"`
}

// Discipline is the gamified spending-discipline view.
type Discipline struct {
	Alerts          []Alert `json:"alerts"`
	DisciplineScore int     `json:"disciplineScore"`
	Rules           []Rule  `json:"rules"`
	Streak          int     `json:"streak"`
}

var defaultRecommendations = []string{
	"Try meal prepping to reduce daily food expenses.",
	"Set up a \"no-spend\" day once a week to boost savings.",
	"Transfer savings immediately when you receive allowance.",
}

// GetReport builds the spending report for the given period ("week" or
// "month").
func (s *reportService) GetReport(userID uint, period string) (*Report, error) {
	return s.getReportAt(userID, period, time.Now())
}

func (s *reportService) getReportAt(userID uint, period string, now time.Time) (*Report, error) {
	budget, err := s.findBudget(userID)
	if err != nil {
		return nil, err
	}

	allowance := models.DefaultAllowance.InexactFloat64()
	if budget != nil {
		allowance = budget.TotalAllowance.InexactFloat64()
	}

	startDate := periodStart(models.PeriodMonthly, now)
	if period == "week" {
		startDate = periodStart(models.PeriodWeekly, now)
	}

	slices, err := s.categoryBreakdown(userID, startDate, now)
	if err != nil {
		return nil, err
	}

	weeklyTrend, _, err := s.weekTrend(userID, allowance, now)
	if err != nil {
		return nil, err
	}

	overview, err := s.monthlyOverview(userID, allowance, now)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ExpensesByCategory: slices,
		WeeklyTrend:        weeklyTrend,
		BudgetVsActual:     bucketComparison(budget, allowance),
		MonthlyOverview:    overview,
		Recommendations:    defaultRecommendations,
	}

	var totalExpenses float64
	for _, slice := range slices {
		totalExpenses += slice.Value
	}
	daysInPeriod := 7.0
	if period != "week" {
		daysInPeriod = float64(daysInMonth(now))
	}
	report.Summary = ReportSummary{
		TotalExpenses: totalExpenses,
		AvgDaily:      math.Round(totalExpenses / daysInPeriod),
		TopCategory:   "N/A",
	}
	if len(slices) > 0 {
		report.Summary.TopCategory = slices[0].Name
	}

	report.Insights = buildInsights(slices, totalExpenses, budget, allowance, weeklyTrend, period)

	return report, nil
}

// GetDashboard builds the landing-page summary.
func (s *reportService) GetDashboard(userID uint) (*Dashboard, error) {
	return s.getDashboardAt(userID, time.Now())
}

func (s *reportService) getDashboardAt(userID uint, now time.Time) (*Dashboard, error) {
	budget, err := s.findBudget(userID)
	if err != nil {
		return nil, err
	}

	allowance := models.DefaultAllowance.InexactFloat64()
	var spent float64
	if budget != nil {
		allowance = budget.TotalAllowance.InexactFloat64()
		spent = budget.TotalSpent().InexactFloat64()
	}

	balance := math.Max(0, allowance-spent)
	budgetUsed := 0
	if allowance > 0 {
		budgetUsed = int(math.Round(spent / allowance * 100))
	}

	var recent []models.Expense
	err = s.db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, periodStart(models.PeriodMonthly, now), startOfDay(now).AddDate(0, 0, 1)).
		Order("date DESC, id DESC").
		Limit(5).
		Find(&recent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recentExpenses := make([]DashboardExpense, 0, len(recent))
	for _, e := range recent {
		recentExpenses = append(recentExpenses, DashboardExpense{
			ID:       e.ID,
			Category: e.Category,
			Amount:   e.Amount.InexactFloat64(),
			Date:     formatRelativeDate(e.Date, now),
			Note:     e.Note,
		})
	}

	var goal models.SavingsGoal
	var dashGoal *DashboardGoal
	err = s.db.Where("user_id = ? AND current < target", userID).
		Order("created_at DESC").
		First(&goal).Error
	if err == nil {
		dashGoal = &DashboardGoal{
			Name:    goal.Name,
			Target:  goal.Target.InexactFloat64(),
			Current: goal.Current.InexactFloat64(),
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Dashboard{
		Balance:        balance,
		Allowance:      allowance,
		Spent:          spent,
		BudgetUsed:     budgetUsed,
		RecentExpenses: recentExpenses,
		SavingsGoal:    dashGoal,
	}, nil
}

// GetDiscipline builds the discipline alerts, score, and checklist from the
// current week's spending.
func (s *reportService) GetDiscipline(userID uint) (*Discipline, error) {
	return s.getDisciplineAt(userID, time.Now())
}

func (s *reportService) getDisciplineAt(userID uint, now time.Time) (*Discipline, error) {
	budget, err := s.findBudget(userID)
	if err != nil {
		return nil, err
	}

	allowance := models.DefaultAllowance.InexactFloat64()
	var needsBudget, wantsBudget, needsSpent, wantsSpent, savingsSpent float64
	if budget != nil {
		allowance = budget.TotalAllowance.InexactFloat64()
		needsBudget = allowance * float64(budget.NeedsAllocation) / 100
		wantsBudget = allowance * float64(budget.WantsAllocation) / 100
		needsSpent = budget.NeedsSpent.InexactFloat64()
		wantsSpent = budget.WantsSpent.InexactFloat64()
		savingsSpent = budget.SavingsSpent.InexactFloat64()
	}

	weekStart := periodStart(models.PeriodWeekly, now)
	weekSlices, err := s.categoryBreakdown(userID, weekStart, now)
	if err != nil {
		return nil, err
	}
	categorySpending := make(map[string]float64, len(weekSlices))
	for _, slice := range weekSlices {
		categorySpending[slice.Name] = slice.Value
	}

	alerts := []Alert{}

	if wantsBudget > 0 {
		wantsPercent := wantsSpent / wantsBudget * 100
		if wantsPercent >= 100 {
			alerts = append(alerts, Alert{
				ID:         "wants-limit",
				Type:       "danger",
				Title:      "Budget Limit Reached!",
				Message:    "You've spent 100% of your 'Wants' budget for this week.",
				Category:   "Wants",
				Percentage: 100,
			})
		} else if wantsPercent >= 85 {
			remaining := math.Round(wantsBudget - wantsSpent)
			alerts = append(alerts, Alert{
				ID:         "wants-warning",
				Type:       "warning",
				Title:      "Approaching Limit",
				Message:    fmt.Sprintf("You've used %d%% of your 'Wants' budget. ₱%.0f remaining.", int(math.Round(wantsPercent)), remaining),
				Category:   "Wants",
				Percentage: int(math.Round(wantsPercent)),
			})
		}
	}

	// The food allowance is a fixed 60% slice of the needs budget.
	foodBudget := needsBudget * 0.6
	if foodBudget > 0 {
		foodPercent := categorySpending["Food"] / foodBudget * 100
		if foodPercent >= 85 {
			remaining := math.Round(foodBudget - categorySpending["Food"])
			alerts = append(alerts, Alert{
				ID:         "food-warning",
				Type:       "warning",
				Title:      "Approaching Limit",
				Message:    fmt.Sprintf("You've used %d%% of your 'Food' budget. ₱%.0f remaining.", int(math.Round(foodPercent)), remaining),
				Category:   "Food",
				Percentage: int(math.Round(foodPercent)),
			})
		}
	}

	savingsTarget := allowance * 0.2
	if savingsSpent >= savingsTarget {
		alerts = append(alerts, Alert{
			ID:      "savings-success",
			Type:    "success",
			Title:   "Great Savings!",
			Message: fmt.Sprintf("You've saved ₱%.0f this week. Keep it up!", math.Round(savingsSpent)),
		})
	}

	// A zero bucket budget with spending counts as a full overrun.
	score := 100.0
	if wantsSpent > wantsBudget {
		penalty := 30.0
		if wantsBudget > 0 {
			overrun := (wantsSpent - wantsBudget) / wantsBudget * 100
			penalty = math.Min(30, overrun*0.5)
		}
		score -= penalty
	}
	if needsSpent > needsBudget {
		penalty := 20.0
		if needsBudget > 0 {
			overrun := (needsSpent - needsBudget) / needsBudget * 100
			penalty = math.Min(20, overrun*0.3)
		}
		score -= penalty
	}
	if savingsSpent >= savingsTarget {
		score += 10
	} else if savingsSpent >= savingsTarget*0.8 {
		score += 5
	}

	trackingDays, err := s.daysWithExpenses(userID, now)
	if err != nil {
		return nil, err
	}
	if trackingDays < 5 {
		score -= float64(5-trackingDays) * 5
	} else if trackingDays == 7 {
		score += 5
	}

	finalScore := int(math.Round(math.Max(0, math.Min(100, score))))

	rules := []Rule{
		{Rule: "Track expenses daily", IsFollowed: trackingDays >= 5},
		{Rule: "Stay within budget categories", IsFollowed: wantsSpent <= wantsBudget && needsSpent <= needsBudget},
		{Rule: "Save at least 20% of allowance", IsFollowed: savingsSpent >= savingsTarget},
		{Rule: "No impulse purchases", IsFollowed: wantsSpent <= wantsBudget*0.9},
		{Rule: "Review spending weekly", IsFollowed: trackingDays >= 5},
	}

	return &Discipline{
		Alerts:          alerts,
		DisciplineScore: finalScore,
		Rules:           rules,
		Streak:          trackingDays,
	}, nil
}

// findBudget loads the user's budget row, returning nil (not an error) when
// none exists yet.
func (s *reportService) findBudget(userID uint) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ?", userID).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// categoryBreakdown returns per-category totals within [start, end of now's
// day], largest first.
func (s *reportService) categoryBreakdown(userID uint, start, now time.Time) ([]CategorySlice, error) {
	var rows []struct {
		Category string
		Total    float64
	}
	err := s.db.Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, startOfDay(now).AddDate(0, 0, 1)).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	slices := make([]CategorySlice, 0, len(rows))
	for _, row := range rows {
		slices = append(slices, CategorySlice{Name: row.Category, Value: row.Total})
	}
	return slices, nil
}

// dailyTotals returns per-day expense sums and entry counts for the 7-day
// window ending today, keyed by YYYY-MM-DD. Bucketing happens here rather
// than in SQL so the day boundary always follows the stored date's location.
func (s *reportService) dailyTotals(userID uint, now time.Time) (map[string]float64, map[string]int, error) {
	var expenses []models.Expense
	windowStart := startOfDay(now).AddDate(0, 0, -6)
	err := s.db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, windowStart, startOfDay(now).AddDate(0, 0, 1)).
		Find(&expenses).Error
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range expenses {
		key := e.Date.Format("2006-01-02")
		totals[key] += e.Amount.InexactFloat64()
		counts[key]++
	}
	return totals, counts, nil
}

// weekTrend builds the last-7-days trend, each day compared against a
// thirtieth of the allowance.
func (s *reportService) weekTrend(userID uint, allowance float64, now time.Time) ([]DayTrend, int, error) {
	totals, counts, err := s.dailyTotals(userID, now)
	if err != nil {
		return nil, 0, err
	}

	dailyBudget := math.Round(allowance / 30)
	trend := make([]DayTrend, 0, 7)
	trackingDays := 0
	for i := 6; i >= 0; i-- {
		day := startOfDay(now).AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		trend = append(trend, DayTrend{
			Day:    day.Format("Mon"),
			Spent:  math.Round(totals[key]),
			Budget: dailyBudget,
		})
		if counts[key] > 0 {
			trackingDays++
		}
	}
	return trend, trackingDays, nil
}

// daysWithExpenses counts days in the last 7 with at least one expense.
func (s *reportService) daysWithExpenses(userID uint, now time.Time) (int, error) {
	_, counts, err := s.dailyTotals(userID, now)
	if err != nil {
		return 0, err
	}

	days := 0
	for i := 6; i >= 0; i-- {
		key := startOfDay(now).AddDate(0, 0, -i).Format("2006-01-02")
		if counts[key] > 0 {
			days++
		}
	}
	return days, nil
}

// monthlyOverview sums expenses for the current month and the three before
// it, against the allowance as income.
func (s *reportService) monthlyOverview(userID uint, allowance float64, now time.Time) ([]MonthOverview, error) {
	overview := make([]MonthOverview, 0, 4)
	for i := 3; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var total float64
		err := s.db.Model(&models.Expense{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND date >= ? AND date < ?", userID, monthStart, monthEnd).
			Scan(&total).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		overview = append(overview, MonthOverview{
			Month:    monthStart.Format("Jan"),
			Income:   math.Round(allowance),
			Expenses: math.Round(total),
		})
	}
	return overview, nil
}

// bucketComparison compares each bucket's budgeted slice against its cached
// spend aggregate.
func bucketComparison(budget *models.Budget, allowance float64) []BucketComparison {
	if budget == nil {
		return []BucketComparison{
			{Category: "Needs"},
			{Category: "Wants"},
			{Category: "Savings"},
		}
	}
	return []BucketComparison{
		{
			Category: "Needs",
			Budget:   math.Round(allowance * float64(budget.NeedsAllocation) / 100),
			Actual:   math.Round(budget.NeedsSpent.InexactFloat64()),
		},
		{
			Category: "Wants",
			Budget:   math.Round(allowance * float64(budget.WantsAllocation) / 100),
			Actual:   math.Round(budget.WantsSpent.InexactFloat64()),
		},
		{
			Category: "Savings",
			Budget:   math.Round(allowance * float64(budget.SavingsAllocation) / 100),
			Actual:   math.Round(budget.SavingsSpent.InexactFloat64()),
		},
	}
}

// buildInsights derives the human-readable insight lines for a report.
func buildInsights(slices []CategorySlice, totalExpenses float64, budget *models.Budget, allowance float64, trend []DayTrend, period string) []string {
	insights := []string{}

	if len(slices) > 0 && totalExpenses > 0 {
		top := slices[0]
		percent := int(math.Round(top.Value / totalExpenses * 100))
		insights = append(insights, fmt.Sprintf("%s is your largest expense category at %d%% of total spending.", top.Name, percent))
	}

	if budget != nil {
		wantsBudget := allowance * float64(budget.WantsAllocation) / 100
		wantsSpent := budget.WantsSpent.InexactFloat64()
		if wantsSpent > wantsBudget {
			over := math.Round(wantsSpent - wantsBudget)
			periodName := "month"
			if period == "week" {
				periodName = "week"
			}
			insights = append(insights, fmt.Sprintf("You've exceeded your \"Wants\" budget by ₱%.0f this %s.", over, periodName))
		}
	}

	if len(trend) == 7 {
		var weekendSpent, weekdaySpent float64
		for i, day := range trend {
			if i >= 5 {
				weekendSpent += day.Spent
			} else {
				weekdaySpent += day.Spent
			}
		}
		if weekendSpent > weekdaySpent/2 {
			insights = append(insights, "You tend to spend more on weekends. Consider setting stricter weekend budgets.")
		}
	}

	return insights
}

// formatRelativeDate renders a date as Today, Yesterday, "N days ago", or a
// short month-day form.
func formatRelativeDate(date, now time.Time) string {
	diffDays := int(startOfDay(now).Sub(startOfDay(date)).Hours() / 24)
	switch {
	case diffDays == 0:
		return "Today"
	case diffDays == 1:
		return "Yesterday"
	case diffDays > 1 && diffDays < 7:
		return fmt.Sprintf("%d days ago", diffDays)
	}
	return date.Format("Jan 2")
}

// daysInMonth returns the number of days in now's month.
func daysInMonth(now time.Time) int {
	firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
