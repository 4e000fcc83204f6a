package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roel-sundiam/tennis-tournament-management/auth"
	"github.com/roel-sundiam/tennis-tournament-management/config"
	"github.com/roel-sundiam/tennis-tournament-management/db"
	"github.com/roel-sundiam/tennis-tournament-management/handlers"
	"github.com/roel-sundiam/tennis-tournament-management/repositories"
	api "github.com/roel-sundiam/tennis-tournament-management/routes"
	"github.com/roel-sundiam/tennis-tournament-management/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	slotRepo := repositories.NewPostgresTimeSlotRepository(dbConn)
	scheduleRepo := repositories.NewPostgresScheduleRepository(dbConn)
	logger.Info("repositories initialized")

	tx := services.NewTxRunner(dbConn)
	locks := services.NewLockTable()

	scheduleService := services.NewScheduleService(
		tx,
		tournamentRepo,
		matchRepo,
		slotRepo,
		scheduleRepo,
		cfg.SlotMaxDays,
		locks,
		logger,
	)
	bracketService := services.NewBracketService(
		tx,
		tournamentRepo,
		teamRepo,
		bracketRepo,
		matchRepo,
		slotRepo,
		scheduleService,
		locks,
		logger,
	)
	matchService := services.NewMatchService(
		tx,
		tournamentRepo,
		matchRepo,
		bracketService,
		locks,
		logger,
	)
	logger.Info("services initialized")

	bracketHandler := handlers.NewBracketHandler(bracketService)
	matchHandler := handlers.NewMatchHandler(matchService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		auth.NewHeaderAuthorizer(),
		bracketHandler,
		matchHandler,
		scheduleHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
