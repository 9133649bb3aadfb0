package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/studydrill/backend/internal/api"
	"github.com/studydrill/backend/internal/domain/history"
	"github.com/studydrill/backend/internal/domain/question"
	"github.com/studydrill/backend/internal/domain/settings"
	"github.com/studydrill/backend/internal/infrastructure/config"
	"github.com/studydrill/backend/internal/notify"
	"github.com/studydrill/backend/internal/scheduler"
	"github.com/studydrill/backend/internal/service"
	"github.com/studydrill/backend/internal/store"

	_ "github.com/studydrill/backend/docs" // generated swagger docs
)

// @title           Studydrill API
// @version         1.0
// @description     Self-study quiz engine — practice from a question bank, run timed exams, and track weak areas.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bank, histLog, appSettings := loadState(db, logger)

	notifier := notify.NewLogNotifier(logger)
	sched := scheduler.New(notifier, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := service.NewEngine(bank, histLog, appSettings, db, sched, notifier, rng, logger)
	defer engine.Close()

	// Arm the reminder from the persisted settings.
	sched.OnSettingsChanged(appSettings)
	defer sched.Stop()

	handler := api.NewHandler(engine, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// loadState reads the three persisted blobs, substituting the documented
// default for anything missing or unreadable. A corrupt blob is never fatal.
func loadState(db *store.SQLiteStore, logger *slog.Logger) ([]question.Question, *history.Log, settings.Settings) {
	bank, err := db.LoadBank()
	if err != nil {
		if err != store.ErrNotFound {
			logger.Warn("bank blob unreadable, using seed bank", "error", err)
		}
		bank = question.SeedBank()
	}

	entries, err := db.LoadHistory()
	if err != nil {
		if err != store.ErrNotFound {
			logger.Warn("history blob unreadable, starting empty", "error", err)
		}
		entries = nil
	}

	appSettings, err := db.LoadSettings()
	if err != nil {
		if err != store.ErrNotFound {
			logger.Warn("settings blob unreadable, using defaults", "error", err)
		}
		appSettings = settings.Default()
	}

	return bank, history.NewLog(entries), appSettings.Normalize()
}
