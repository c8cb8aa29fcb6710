package routes

import (
	"carecompanion/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterActivityRoutes(router gin.IRouter, activityController *controllers.ActivityController) {
	activityRoutes := router.Group("/activity")
	{
		activityRoutes.POST("", activityController.TrackActivity)
		activityRoutes.GET("", activityController.GetActivities)
		activityRoutes.DELETE("", activityController.ClearActivities)
		activityRoutes.GET("/today", activityController.GetTodayActivities)
		activityRoutes.GET("/recent", activityController.GetRecentActivities)
		activityRoutes.GET("/date/:date", activityController.GetActivitiesByDate)
		activityRoutes.GET("/types", activityController.GetActivityTypes)
	}
}
