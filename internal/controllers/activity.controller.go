package controllers

import (
	"carecompanion/internal/middleware"
	"carecompanion/internal/models"
	"carecompanion/internal/services"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const maxWindowDays = 365

type ActivityController struct {
	tracker *services.ActivityTracker
	summary *services.SummaryService
}

func NewActivityController(tracker *services.ActivityTracker, summary *services.SummaryService) *ActivityController {
	return &ActivityController{tracker: tracker, summary: summary}
}

// TrackActivityRequest is the body of POST /activity.
type TrackActivityRequest struct {
	Type      models.ActivityType `json:"type" binding:"required" example:"MOOD_CHECKIN"`
	Metadata  models.Metadata     `json:"metadata"`
	PatientID string              `json:"patient_id" example:"patient_001"`
}

// TrackActivity godoc
// @Summary Track a new activity
// @Description Append an activity to the log. Unknown types are accepted under the "other" category.
// @Tags activity
// @Accept json
// @Produce json
// @Param activity body TrackActivityRequest true "Activity data"
// @Success 201 {object} map[string]interface{} "Activity tracked successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /activity [post]
func (ac *ActivityController) TrackActivity(c *gin.Context) {
	var req TrackActivityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	for key, value := range req.Metadata {
		if !models.IsScalar(value) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request data",
				"error":   fmt.Sprintf("metadata field %q must be a string, number or boolean", key),
			})
			return
		}
	}

	patientID := patientFromToken(c)
	if patientID == "" {
		patientID = req.PatientID
	}

	activity := ac.tracker.Track(c.Request.Context(), req.Type, req.Metadata, patientID)

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Activity tracked successfully",
		"data":    activity,
	})
}

// GetActivities godoc
// @Summary Get the activity log
// @Description Retrieve the activity log, most recent first, optionally for one patient
// @Tags activity
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} map[string]interface{} "Activities retrieved successfully"
// @Router /activity [get]
func (ac *ActivityController) GetActivities(c *gin.Context) {
	patientID := resolvePatientFilter(c)

	activities := ac.tracker.All(c.Request.Context())
	if patientID != "" {
		filtered := []models.ActivityRecord{}
		for _, a := range activities {
			if a.PatientID == patientID {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activities retrieved successfully",
		"data":    activities,
	})
}

// GetTodayActivities godoc
// @Summary Get today's activities
// @Tags activity
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} map[string]interface{} "Activities retrieved successfully"
// @Router /activity/today [get]
func (ac *ActivityController) GetTodayActivities(c *gin.Context) {
	activities := ac.summary.Today(c.Request.Context(), resolvePatientFilter(c))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activities retrieved successfully",
		"data":    activities,
	})
}

// GetRecentActivities godoc
// @Summary Get activities of the last N days
// @Tags activity
// @Produce json
// @Param days query int false "Window in days (default 7)"
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} map[string]interface{} "Activities retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid days"
// @Router /activity/recent [get]
func (ac *ActivityController) GetRecentActivities(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	activities := ac.summary.Recent(c.Request.Context(), days, resolvePatientFilter(c))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activities retrieved successfully",
		"data":    activities,
	})
}

// GetActivitiesByDate godoc
// @Summary Get activities of one calendar day
// @Tags activity
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} map[string]interface{} "Activities retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Router /activity/date/{date} [get]
func (ac *ActivityController) GetActivitiesByDate(c *gin.Context) {
	date, ok := parseDate(c, c.Param("date"), ac.tracker)
	if !ok {
		return
	}

	activities := ac.summary.ForDate(c.Request.Context(), date, resolvePatientFilter(c))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activities retrieved successfully",
		"data":    activities,
	})
}

// ClearActivities godoc
// @Summary Clear the activity log
// @Description Remove every activity for every patient
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{} "Activities cleared successfully"
// @Failure 500 {object} map[string]interface{} "Failed to clear activities"
// @Router /activity [delete]
func (ac *ActivityController) ClearActivities(c *gin.Context) {
	if err := ac.tracker.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to clear activities",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activities cleared successfully",
		"data":    nil,
	})
}

// GetActivityTypes godoc
// @Summary List the known activity types
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{} "Activity types retrieved successfully"
// @Router /activity/types [get]
func (ac *ActivityController) GetActivityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Activity types retrieved successfully",
		"data":    models.ActivityTypes(),
	})
}

func patientFromToken(c *gin.Context) string {
	return c.GetString(middleware.PatientIDKey)
}

// resolvePatientFilter prefers the authenticated patient over the query
// string. An empty result means every patient.
func resolvePatientFilter(c *gin.Context) string {
	if id := patientFromToken(c); id != "" {
		return id
	}
	return c.Query("patient_id")
}

func parseDays(c *gin.Context) (int, bool) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > maxWindowDays {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid days",
			"error":   fmt.Sprintf("days must be an integer between 1 and %d", maxWindowDays),
		})
		return 0, false
	}
	return days, true
}

// parseDate reads a YYYY-MM-DD value in the tracker's location. An empty
// value means now.
func parseDate(c *gin.Context, value string, tracker *services.ActivityTracker) (time.Time, bool) {
	if value == "" {
		return tracker.Now(), true
	}
	date, err := time.ParseInLocation(models.DateLayout, value, tracker.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid date",
			"error":   "Date must use the YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return date, true
}
