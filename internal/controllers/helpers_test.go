package controllers_test

import (
	"bytes"
	"carecompanion/internal/controllers"
	"carecompanion/internal/middleware"
	"carecompanion/internal/repository"
	"carecompanion/internal/services"
	"carecompanion/routes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNoon = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestTracker(repo repository.ActivityRepository) *services.ActivityTracker {
	tracker := services.NewActivityTracker(repo, services.TrackerConfig{Location: time.UTC})
	tracker.SetClock(func() time.Time { return testNoon })
	return tracker
}

// setupTestRouter mounts every API route over tracker. A non-empty patientID
// simulates an authenticated request.
func setupTestRouter(tracker *services.ActivityTracker, patientID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if patientID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.PatientIDKey, patientID)
			c.Next()
		})
	}

	summary := services.NewSummaryService(tracker)
	routes.RegisterActivityRoutes(router, controllers.NewActivityController(tracker, summary))
	routes.RegisterSummaryRoutes(router, controllers.NewSummaryController(tracker, summary))
	routes.RegisterDemoRoutes(router, controllers.NewDemoController(tracker, "patient_001"))
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func decodeData(t *testing.T, resp envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
