// File: huddle/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huddle/config"
	"huddle/cron"
	"huddle/database"
	bookingRepo "huddle/database/repository/booking"
	calendarRepo "huddle/database/repository/calendar"
	snapshotRepo "huddle/database/repository/snapshot"
	"huddle/handlers"
	"huddle/middleware"
	"huddle/routes"
	"huddle/services/booking"
	"huddle/services/coordination"
	"huddle/services/identity"
	"huddle/services/planner"
	"huddle/services/room"
	"huddle/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSnapshotClient()

	// repositories.
	bookRepo := bookingRepo.NewMongoBookingRepo()
	calRepo := calendarRepo.NewMongoCalendarRepo()
	snapStore := snapshotRepo.NewRedisSnapshotStore(utils.GetSnapshotClient())

	// services.
	catalog := room.NewDefaultCatalog()
	store := booking.NewStore(bookRepo, logger)

	gateway, err := planner.NewGeminiGateway(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		config.AppConfig.PlannerTimeout,
		logger,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize planner gateway: %v", err)
	}

	dispatcher := cron.NewAsynqDispatcher()
	registry := coordination.NewRegistry(coordination.Options{
		Store:            store,
		Catalog:          catalog,
		Gateway:          gateway,
		Calendars:        calRepo,
		Dispatcher:       dispatcher,
		MeetingDuration:  config.AppConfig.MeetingDuration,
		PlanningDeadline: config.AppConfig.PlanningDeadline,
		Logger:           logger,
	})

	// Restore state from the previous run: the registry snapshot carries the
	// sessions, the mongo log is the durable source for bookings.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if snap, err := snapStore.Load(bootCtx); err != nil {
		logger.Sugar().Warnf("main: failed to load registry snapshot: %v", err)
	} else if snap != nil {
		registry.Restore(*snap)
		logger.Sugar().Infof("main: restored %d sessions from snapshot", len(snap.Sessions))
	}
	if bookings, err := bookRepo.GetAll(bootCtx); err != nil {
		logger.Sugar().Warnf("main: failed to load bookings: %v", err)
	} else if len(bookings) > 0 {
		// Union with whatever the snapshot carried; a booking present in only
		// one source stays committed.
		store.Merge(bookings)
		logger.Sugar().Infof("main: merged %d bookings from the durable log", len(bookings))
	}
	bootCancel()

	identitySvc := identity.NewGoogleIdentityService(config.AppConfig.GoogleClientID)

	// background workers.
	worker := cron.InitPlannerWorker(registry)
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	cron.StartSweeper(sweepCtx, registry, snapStore, config.AppConfig.SweepInterval)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	viewCache := booking.NewRedisViewCache(utils.GetCacheClient(), 5*time.Second)
	hb := &routes.HandlerBundle{
		Auth:     handlers.NewAuthHandler(identitySvc, logger),
		Session:  handlers.NewSessionHandler(registry, logger),
		Room:     handlers.NewRoomHandler(catalog, registry, viewCache),
		Calendar: handlers.NewCalendarHandler(calRepo, logger),
	}
	routes.RegisterRoutes(router, hb)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	sweepCancel()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	// Final snapshot so a restart resumes where we left off.
	if err := snapStore.Save(ctx, registry.Snapshot()); err != nil {
		logger.Sugar().Warnf("main: failed to persist final snapshot: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
