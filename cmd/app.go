package main

import (
	"context"
	"fmt"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"
	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// app owns every long-lived object; close releases them.
type app struct {
	log      *zap.Logger
	db       *gorm.DB
	refs     *services.ReferenceStore
	resolver *services.Resolver
	foods    *services.FoodService
	meals    *services.MealService
	targets  *services.TargetService
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// newApp wires the storage layer and, when withOracle is set, the
// resolution pipeline and everything built on it.
func newApp(ctx context.Context, cfg *config.Config, nc *config.NutritionConfig, withOracle bool) (*app, error) {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := openStorage(cfg, config.Migrate)
	if err != nil {
		return nil, err
	}

	a := &app{log: log, db: db}
	a.refs = services.NewReferenceStore(db, nc.Fuzzy, log)
	if !withOracle {
		return a, nil
	}

	gen, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModels, log)
	if err != nil {
		a.close()
		return nil, err
	}
	oracle := services.NewEstimationOracle(gen, services.OracleConfig{
		CallTimeout: cfg.OracleTimeout,
		MaxRetries:  cfg.OracleRetries,
	}, log)
	a.resolver = services.NewResolver(a.refs, oracle, cfg.ResolveConcurrency, log)

	var detector services.Detector
	if cfg.AWSRegion != "" {
		rek, err := services.NewRekognitionDetector(ctx, cfg.AWSRegion, cfg.DetectMinConfidence, nc.Detector.IgnoreLabels)
		if err != nil {
			a.close()
			return nil, err
		}
		detector = services.NewFallbackDetector(log, services.NamedDetector{Name: "rekognition", Detector: rek})
	} else {
		log.Warn("AWS_REGION not set, image detection disabled")
	}

	a.foods = services.NewFoodService(detector, a.resolver)
	a.meals = services.NewMealService(db, a.resolver, log)
	a.targets = services.NewTargetService(db, a.meals, nc.Targets)
	return a, nil
}

// openStorage connects and runs migrate, closing the pool if migrate fails.
func openStorage(cfg *config.Config, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func (a *app) close() {
	closeDB(a.db)
	_ = a.log.Sync()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
