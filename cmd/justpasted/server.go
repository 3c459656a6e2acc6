package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/vmunix/justpaste/internal/adapters/ytdlp"
	v1 "github.com/vmunix/justpaste/internal/api/v1"
	"github.com/vmunix/justpaste/internal/config"
	"github.com/vmunix/justpaste/internal/download"
	"github.com/vmunix/justpaste/internal/history"
	"github.com/vmunix/justpaste/internal/migrations"
	"github.com/vmunix/justpaste/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote { // Only capture first WriteHeader call
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(b)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// openHistory opens the sqlite database and applies the schema.
func openHistory(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; history appends are already serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// buildHandler wires stores, engine and manager into the HTTP handler.
func buildHandler(cfg *config.Config, db *sql.DB, engine download.Engine, logger *slog.Logger) (http.Handler, error) {
	historyStore := history.NewStore(db)

	x := cfg.Extractor
	manager := download.NewManager(engine, historyStore, download.Config{
		ScratchDir:  x.ScratchDir,
		MaxAttempts: x.MaxAttempts,
		Strategy: download.StrategyOptions{
			UserAgent:           x.UserAgent,
			EngineRetries:       x.EngineRetries,
			ConcurrentFragments: x.ConcurrentFragments,
			AudioQuality:        x.AudioQuality,
		},
	}, logger.With("component", "download"))

	api, err := v1.New(v1.ServerDeps{
		Downloader: manager,
		History:    historyStore,
	}, v1.Config{
		MaxConcurrentJobs: x.MaxConcurrentJobs,
		Version:           version,
	}, logger.With("component", "api"))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return logRequests(mux, logger.With("component", "http")), nil
}

// loadEnv reads envFile into the process environment. A missing file is
// not an error.
func loadEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// printConfig writes the config the daemon would run with, defaults and
// environment substitutions applied.
func printConfig(w io.Writer, configPath, envFile string) error {
	if err := loadEnv(envFile); err != nil {
		return err
	}
	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if path == "" {
		path = "built-in defaults"
	}
	if _, err := fmt.Fprintf(w, "# source: %s\n", path); err != nil {
		return err
	}
	return cfg.Encode(w)
}

func runServer(configPath, envFile string) error {
	if err := loadEnv(envFile); err != nil {
		return err
	}

	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	db, err := openHistory(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	executable := cfg.Extractor.Binary
	if cfg.Extractor.AutoInstall {
		logger.Info("installing yt-dlp")
		installed, err := ytdlp.Install(ctx)
		if err != nil {
			return err
		}
		executable = installed
	}
	engine := ytdlp.New(executable, logger.With("component", "ytdlp"))

	handler, err := buildHandler(cfg, db, engine, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"config", path,
		"database", cfg.Database.Path,
		"engine", engine.Name(),
		"executable", executable,
		"max_concurrent_jobs", cfg.Extractor.MaxConcurrentJobs,
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(handler, server.Config{
		Addr:       addr,
		ScratchDir: cfg.Extractor.ScratchDir,
		StaleAfter: cfg.Extractor.StaleAfter.Duration,
	}, logger.With("component", "runner"))

	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
