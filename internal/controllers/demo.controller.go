package controllers

import (
	"carecompanion/internal/services"
	"carecompanion/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DemoController struct {
	tracker          *services.ActivityTracker
	defaultPatientID string
}

func NewDemoController(tracker *services.ActivityTracker, defaultPatientID string) *DemoController {
	return &DemoController{tracker: tracker, defaultPatientID: defaultPatientID}
}

// SeedDemoActivities godoc
// @Summary Replace the log with demo activities
// @Description Generates a week of synthetic history for the patient. Existing activities are discarded.
// @Tags demo
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Success 201 {object} map[string]interface{} "Demo activities seeded successfully"
// @Failure 500 {object} map[string]interface{} "Failed to seed demo activities"
// @Router /demo/seed [post]
func (dc *DemoController) SeedDemoActivities(c *gin.Context) {
	patientID := resolvePatientFilter(c)
	if patientID == "" {
		patientID = dc.defaultPatientID
	}

	count, err := utils.SeedDemoActivities(c.Request.Context(), dc.tracker, patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to seed demo activities",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Demo activities seeded successfully",
		"data": gin.H{
			"patient_id": patientID,
			"count":      count,
		},
	})
}
