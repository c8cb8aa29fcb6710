package main

import (
	"carecompanion/database"
	"carecompanion/internal/config"
	"carecompanion/internal/controllers"
	"carecompanion/internal/middleware"
	"carecompanion/internal/services"
	"carecompanion/routes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.SetupLogging(cfg)

	store, err := database.OpenActivityStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open activity store")
	}
	defer store.Close()

	stopMonitor := make(chan struct{})
	if cfg.StoreBackend == config.BackendPostgres {
		database.MonitorDBConnections(10*time.Second, stopMonitor)
	}
	defer close(stopMonitor)

	tracker := services.NewActivityTracker(store.Repository, services.TrackerConfig{
		RetentionCap:   cfg.RetentionCap,
		QuotaRetention: cfg.QuotaRetention,
		Location:       cfg.Location,
	})
	summaryService := services.NewSummaryService(tracker)

	scheduler, err := services.NewReportScheduler(summaryService, cfg.ReportSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	activityController := controllers.NewActivityController(tracker, summaryService)
	summaryController := controllers.NewSummaryController(tracker, summaryService)
	demoController := controllers.NewDemoController(tracker, cfg.DemoPatientID)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	var storeStatus routes.StoreStatusProvider
	if store.Redis != nil {
		storeStatus = store.Redis
	}
	routes.RegisterSystemRoutes(router, tracker, cfg.StoreBackend, storeStatus)

	api := router.Group("")
	if cfg.JWTSecret != "" {
		api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		log.Info().Msg("JWT authentication enabled")
	} else {
		log.Warn().Msg("JWT_SECRET_KEY not set, patient identity comes from request parameters")
	}
	routes.RegisterActivityRoutes(api, activityController)
	routes.RegisterSummaryRoutes(api, summaryController)
	routes.RegisterDemoRoutes(api, demoController)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.StoreBackend).
			Str("timezone", cfg.Location.String()).
			Msg("CareCompanion API server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
