package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"landscout/config"
	"landscout/cronjobs"
	"landscout/db"
	"landscout/imagery"
	"landscout/pipeline"
	"landscout/registry"
	"landscout/report"
	"landscout/routes"
	"landscout/vision"
)

func main() {
	// Load .env file; a missing file is fine in deployed environments.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Startup configuration errors are the only fatal failures.
	if err := cfg.Validate(); err != nil {
		zap.S().Fatalw("invalid configuration", "error", err)
	}

	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		zap.S().Fatalw("failed to prepare output directory", "dir", cfg.OutputDir, "error", err)
	}

	// Optional Firestore archive.
	var store *db.Store
	var archive pipeline.Archiver
	if cfg.FirebaseCreds != "" {
		client, err := db.InitFirestore()
		if err != nil {
			zap.S().Warnw("result archive unavailable", "error", err)
		} else {
			defer db.CloseFirestore()
			store = db.NewStore(client)
			archive = store
		}
	}

	p := pipeline.New(
		registry.NewClient(),
		imagery.NewClient(cfg.StaticMapsAPIKey),
		vision.NewClient(cfg.OpenAIAPIKey),
		pipeline.Options{
			SatelliteZoom: cfg.SatelliteZoom,
			ImageWidth:    cfg.ImageWidth,
			ImageHeight:   cfg.ImageHeight,
			ClassifyPacer: pipeline.NewPacer(time.Second),
			ScanPacer:     pipeline.NewPacer(cfg.RequestDelay),
			Reports:       writer,
			Archive:       archive,
		},
	)

	cronjobs.InitCronJobs(p, cfg)

	r := routes.SetupRouter(p, store, cfg)
	if err := r.Run(":" + cfg.Port); err != nil {
		zap.S().Fatalw("failed to start server", "error", err)
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var zc zap.Config
	if cfg.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zc.Level = lvl
	}

	logger, err := zc.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}
