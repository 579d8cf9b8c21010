package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voltpanel/voltpanel-be/internal/api"
	"github.com/voltpanel/voltpanel-be/internal/config"
	"github.com/voltpanel/voltpanel-be/internal/database"
	"github.com/voltpanel/voltpanel-be/internal/logger"
	"github.com/voltpanel/voltpanel-be/internal/monitoring"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	authService := services.NewAuthService(db)
	adminService := services.NewAdminService(db)

	// Set up and run the background usage reporter
	reporter, err := monitoring.NewReporter(adminService, cfg.StatsSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.StatsSchedule).Msg("Invalid stats schedule")
	}
	go reporter.Run()

	// Set up router
	router := api.NewRouter(authService, adminService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	reporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
