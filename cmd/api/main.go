package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"property_underwriting/pkg/api/analysis"
	"property_underwriting/pkg/api/assumptions"
	"property_underwriting/pkg/config"
	"property_underwriting/pkg/core/store"
	"property_underwriting/pkg/logging"
)

func main() {
	godotenv.Load()
	logging.Setup()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/underwriting.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("config load failed", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Postgres is optional: without it the API still computes, it just
	// cannot persist deals or assumptions.
	var assumptionsRepo *store.AssumptionsRepo
	seed := cfg.Assumptions
	if cfg.Database.URL != "" || os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
			slog.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		assumptionsRepo = store.NewAssumptionsRepo()
		if loaded, err := assumptionsRepo.Load(ctx); err == nil {
			seed = loaded
		}
		slog.Info("database connected")
	} else {
		slog.Info("no database configured, running stateless")
	}

	// Redis result cache is optional as well.
	var cache store.ResultCache
	if cfg.Redis.Addr != "" {
		cache = store.NewRedisCache(cfg.Redis.Addr)
		slog.Info("result cache enabled", "addr", cfg.Redis.Addr)
	}

	analysis.InitHandler(cache, seed)
	assumptions.InitHandler(assumptionsRepo, seed)
	if assumptionsRepo != nil {
		analysis.SetDealSaver(store.NewDealRepo())
	}

	http.HandleFunc("/api/analysis/proforma", analysis.HandleProforma)
	http.HandleFunc("/api/analysis/arv", analysis.HandleARV)
	http.HandleFunc("/api/analysis/rehab", analysis.HandleRehab)
	http.HandleFunc("/api/analysis/exit", analysis.HandleExit)
	http.HandleFunc("/api/analysis/full", analysis.HandleFull)
	http.HandleFunc("/api/assumptions", assumptions.HandleAssumptions)

	slog.Info("API server starting", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
