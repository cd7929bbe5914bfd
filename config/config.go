package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	TelegramToken   string
	GeminiAPIKey    string // empty disables AI insights
	AdminPassword   string
	DatasetPath     string // optional spreadsheet loaded at startup
	ReportDBPath    string // empty keeps the report log in memory
	ChartsDir       string
	ExportDir       string
	ForecastWindow  int
	ForecastPeriods int
	MaxHistorySize  int
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		DatasetPath:     os.Getenv("DATASET_PATH"),
		ReportDBPath:    "data/reports.db",
		ChartsDir:       "charts",
		ExportDir:       "exports",
		ForecastWindow:  3,
		ForecastPeriods: 3,
		MaxHistorySize:  50,
	}

	if dbPath, ok := os.LookupEnv("REPORT_DB_PATH"); ok {
		config.ReportDBPath = dbPath
	}
	if dir := os.Getenv("CHARTS_DIR"); dir != "" {
		config.ChartsDir = dir
	}
	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		config.ExportDir = dir
	}

	if raw := os.Getenv("FORECAST_WINDOW"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return nil, fmt.Errorf("FORECAST_WINDOW must be an integer between 1 and 12")
		}
		config.ForecastWindow = parsed
	}
	if raw := os.Getenv("FORECAST_PERIODS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return nil, fmt.Errorf("FORECAST_PERIODS must be an integer between 1 and 12")
		}
		config.ForecastPeriods = parsed
	}

	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
	}
	if config.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is empty")
	}

	return config, nil
}
