package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/core"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
)

type application struct {
	config *config.Config
	core   *core.Core
	auth   *auth.Auth
	logger *slog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	logger := configLogger(cfg)
	logger.Info("Starting application...")

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	logger.Info("Database connection established successfully")

	if err := database.Migrate(cfg.MigrationsURL, cfg.DatabaseURL); err != nil {
		logger.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	session := databaseutils.NewSession(db)
	sqlTemplate := databaseutils.NewSQLTemplate(db, 3*time.Second)
	tokenCodec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL())

	app := &application{
		config: cfg,
		core:   core.NewCore(db, logger, session, sqlTemplate),
		auth:   auth.NewAuth(tokenCodec),
		logger: logger,
	}

	if err := app.serve(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = devslog.NewHandler(os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     level,
			},
			NewLineAfterLog: false,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
