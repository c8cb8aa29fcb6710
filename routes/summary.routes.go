package routes

import (
	"carecompanion/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSummaryRoutes(router gin.IRouter, summaryController *controllers.SummaryController) {
	summaryRoutes := router.Group("/summary")
	{
		summaryRoutes.GET("/daily", summaryController.GetDailySummary)
		summaryRoutes.GET("/weekly", summaryController.GetWeeklySummary)
		summaryRoutes.GET("/mood", summaryController.GetMoodHistory)
		summaryRoutes.GET("/report", summaryController.GetDailyReport)
	}
}

func RegisterDemoRoutes(router gin.IRouter, demoController *controllers.DemoController) {
	router.POST("/demo/seed", demoController.SeedDemoActivities)
}
