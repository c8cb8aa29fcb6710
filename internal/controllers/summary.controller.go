package controllers

import (
	"carecompanion/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	tracker *services.ActivityTracker
	summary *services.SummaryService
}

func NewSummaryController(tracker *services.ActivityTracker, summary *services.SummaryService) *SummaryController {
	return &SummaryController{tracker: tracker, summary: summary}
}

// GetDailySummary godoc
// @Summary Daily caregiver summary
// @Description Totals, mood trend, engagement score, alerts and highlights for one day
// @Tags summary
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{} "Daily summary generated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Router /summary/daily [get]
func (sc *SummaryController) GetDailySummary(c *gin.Context) {
	date, ok := parseDate(c, c.Query("date"), sc.tracker)
	if !ok {
		return
	}

	daily := sc.summary.DailySummary(c.Request.Context(), resolvePatientFilter(c), date)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Daily summary generated successfully",
		"data":    daily,
	})
}

// GetWeeklySummary godoc
// @Summary Weekly family report
// @Description Activity totals over the last 7 days with daily breakdown, moods and top categories
// @Tags summary
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} map[string]interface{} "Weekly summary generated successfully"
// @Router /summary/weekly [get]
func (sc *SummaryController) GetWeeklySummary(c *gin.Context) {
	weekly := sc.summary.WeeklySummary(c.Request.Context(), resolvePatientFilter(c))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Weekly summary generated successfully",
		"data":    weekly,
	})
}

// GetMoodHistory godoc
// @Summary Mood check-in history
// @Tags summary
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param days query int false "Window in days (default 7)"
// @Success 200 {object} map[string]interface{} "Mood history retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid days"
// @Router /summary/mood [get]
func (sc *SummaryController) GetMoodHistory(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	history := sc.summary.MoodHistory(c.Request.Context(), resolvePatientFilter(c), days)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Mood history retrieved successfully",
		"data":    history,
	})
}

// GetDailyReport godoc
// @Summary Caregiver daily report
// @Description Engagement level, current mood, highlights and recommendations for one day, with a markdown rendering
// @Tags summary
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{} "Daily report generated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Router /summary/report [get]
func (sc *SummaryController) GetDailyReport(c *gin.Context) {
	date, ok := parseDate(c, c.Query("date"), sc.tracker)
	if !ok {
		return
	}

	report := sc.summary.DailyReport(c.Request.Context(), resolvePatientFilter(c), date)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Daily report generated successfully",
		"data":    report,
	})
}
