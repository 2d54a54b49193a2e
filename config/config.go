package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds process-level settings read from the environment.
type Config struct {
	Port     string
	LogLevel string

	DBDriver   string // "postgres" | "sqlite"
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	GeminiAPIKey string
	GeminiModels []string // tried in order

	AWSRegion           string
	DetectMinConfidence float64

	OracleTimeout      time.Duration
	OracleRetries      int
	ResolveConcurrency int

	NutritionConfigPath string // optional YAML override of the embedded defaults
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              getEnv("DB_PORT", "5432"),
		SQLitePath:          getEnv("SQLITE_PATH", "nutrition.db"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModels:        splitList(getEnv("GEMINI_MODELS", "gemini-2.5-flash,gemini-2.0-flash")),
		AWSRegion:           os.Getenv("AWS_REGION"),
		NutritionConfigPath: os.Getenv("NUTRITION_CONFIG"),
	}

	var err error
	if cfg.OracleTimeout, err = time.ParseDuration(getEnv("ORACLE_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("ORACLE_TIMEOUT: %w", err)
	}
	if cfg.OracleRetries, err = strconv.Atoi(getEnv("ORACLE_RETRIES", "1")); err != nil {
		return nil, fmt.Errorf("ORACLE_RETRIES: %w", err)
	}
	if cfg.ResolveConcurrency, err = strconv.Atoi(getEnv("RESOLVE_CONCURRENCY", "8")); err != nil {
		return nil, fmt.Errorf("RESOLVE_CONCURRENCY: %w", err)
	}
	if cfg.DetectMinConfidence, err = strconv.ParseFloat(getEnv("DETECT_MIN_CONFIDENCE", "75"), 64); err != nil {
		return nil, fmt.Errorf("DETECT_MIN_CONFIDENCE: %w", err)
	}
	if cfg.OracleRetries < 0 {
		return nil, fmt.Errorf("ORACLE_RETRIES must be >= 0, got %d", cfg.OracleRetries)
	}
	return cfg, nil
}

// OpenDB connects gorm to the configured driver.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the engine owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Member{},
		&models.FoodReference{},
		&models.Meal{},
		&models.MealItem{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
