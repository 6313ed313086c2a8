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

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/config"
	httptransport "github.com/example/course-scheduler/internal/http"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	courseRepo := newCourseRepositoryAdapter(sqlite.NewCourseRepository(pool))
	enrollmentRepo := newEnrollmentRepositoryAdapter(sqlite.NewEnrollmentRepository(pool))
	tracker := sqlite.NewCapacityStore(pool)

	courseService := application.NewCourseServiceWithLogger(courseRepo, idGenerator, now, logger)
	scheduleService := application.NewScheduleServiceWithLogger(courseRepo, cfg.UpcomingOccurrences, now, logger)
	enrollmentService := application.NewEnrollmentServiceWithLogger(courseRepo, enrollmentRepo, tracker, cfg.CancellationWindow, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Courses:     httptransport.NewCourseHandler(courseService, scheduleService, logger),
		Enrollments: httptransport.NewEnrollmentHandler(enrollmentService, logger),
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("course API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
