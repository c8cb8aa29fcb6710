package routes

import (
	"carecompanion/internal/services"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StoreStatusProvider reports backend specific diagnostics, such as the Redis
// pool and memory usage.
type StoreStatusProvider interface {
	GetStatus(ctx context.Context) (map[string]interface{}, error)
}

// RegisterSystemRoutes mounts the health check and store diagnostics. status
// may be nil when the backend has no extra diagnostics.
func RegisterSystemRoutes(router gin.IRouter, tracker *services.ActivityTracker, backend string, status StoreStatusProvider) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "CareCompanion API is running"})
	})

	router.GET("/debug/store", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		state := "ok"
		var pingErr string
		if err := tracker.Ping(ctx); err != nil {
			state = "unavailable"
			pingErr = err.Error()
		}

		data := gin.H{
			"backend":       backend,
			"store":         state,
			"error":         pingErr,
			"count":         len(tracker.All(c.Request.Context())),
			"retention_cap": tracker.RetentionCap(),
			"location":      tracker.Location().String(),
		}

		if status != nil {
			details, err := status.GetStatus(ctx)
			if err != nil {
				data["details_error"] = err.Error()
			} else {
				data["details"] = details
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Store status retrieved successfully",
			"data":    data,
		})
	})
}
