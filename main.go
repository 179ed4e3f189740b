package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mkravets/taskboard/api"
	"github.com/mkravets/taskboard/database"
	"github.com/mkravets/taskboard/integrations"
	"github.com/mkravets/taskboard/internal/config"
	"github.com/mkravets/taskboard/internal/service"
)

func main() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "debug"
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := logConfig.Build()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()

	db := database.Init(cfg)
	sqlDB, _ := db.DB()

	var mirror service.CalendarMirror
	if cfg.CalendarEnabled() {
		calClient, err := integrations.NewCalendarClient(context.Background(), cfg.GoogleCredentialsFile, cfg.GoogleCalendarID)
		if err != nil {
			zap.L().Fatal("Failed to initialise Google Calendar client", zap.Error(err))
		}
		zap.L().Info("Successfully authenticated with Google Calendar API.")
		mirror = calClient
	} else {
		zap.L().Info("Google Calendar mirroring disabled (no credentials configured)")
	}

	router := gin.Default()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	apiHandler := &api.Handler{
		Boards:   service.NewBoardService(db),
		Projects: service.NewProjectService(db),
		Tasks:    service.NewTaskService(db),
		Notes:    service.NewNoteService(db),
		Owners:   service.NewOwnerService(db),
		Tags:     service.NewTagService(db),
		Events:   service.NewEventService(db, mirror),
	}
	apiHandler.Register(router.Group("/api"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	zap.L().Info("Starting server", zap.String("port", cfg.Port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	var once sync.Once

	cleanup := func(reason string) {
		zap.L().Info("Shutdown initiated", zap.String("reason", reason))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		zap.L().Info("Shutting down HTTP server...")
		if err := srv.Shutdown(ctx); err != nil {
			zap.L().Error("Error shutting down server", zap.Error(err))
		} else {
			zap.L().Info("HTTP server shut down gracefully.")
		}

		if sqlDB != nil {
			if err := sqlDB.Close(); err != nil {
				zap.L().Error("Error closing database", zap.Error(err))
			} else {
				zap.L().Info("Database connection closed.")
			}
		}
		close(done)
	}

	go func() {
		sig := <-sigCh
		once.Do(func() {
			cleanup(sig.String())
		})

		// if a second signal is caught, exit immediately
		go func() {
			<-sigCh
			zap.L().Info("Second interrupt signal received. Exiting immediately.")
			os.Exit(1)
		}()
	}()

	<-done
	zap.L().Info("Exiting...")
}
