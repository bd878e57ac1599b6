// Package main - Entry point for the budget-analytics server
package main

import (
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"

	"budget-analytics/adapters/factors"
	"budget-analytics/adapters/postgres"
	"budget-analytics/api"
	"budget-analytics/core/analytics"
	"budget-analytics/internal/config"
	"budget-analytics/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file (JSON or HCL)")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("loading config", zap.Error(err))
		}
		cfg = loaded
		config.Set(cfg)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("initializing logging", zap.Error(err))
	}
	defer logging.Sync()

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		logging.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	provider, err := factors.NewFileProvider(cfg.Analytics.FactorsPath)
	if err != nil {
		logging.Fatal("loading factors dataset", zap.Error(err))
	}

	svc := analytics.NewService(postgres.NewRepository(db, cfg.Analytics), provider)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewServer(svc, version),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	logging.Info("server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version))
	if err := server.ListenAndServe(); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}
