package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/yourusername/retail-insights-bot/config"
	"github.com/yourusername/retail-insights-bot/internal/delivery/telegram"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/charts"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/exporter"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/gemini"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/parser"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/storage"
	"github.com/yourusername/retail-insights-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	recordRepo := storage.NewMemoryRecordRepository()
	adminRepo := storage.NewMemoryAdminRepository()

	var logRepo repository.ReportLogRepository
	if cfg.ReportDBPath != "" {
		sqliteLog, err := storage.NewSQLiteReportLogRepository(cfg.ReportDBPath, cfg.MaxHistorySize)
		if err != nil {
			log.Printf("⚠️ SQLite report log unavailable (%v), falling back to memory", err)
			logRepo = storage.NewMemoryReportLogRepository(cfg.MaxHistorySize)
		} else {
			logRepo = sqliteLog
		}
	} else {
		logRepo = storage.NewMemoryReportLogRepository(cfg.MaxHistorySize)
	}
	if closer, ok := logRepo.(io.Closer); ok {
		defer closer.Close()
	}

	// Infrastructure
	excelParser := parser.NewExcelParser()
	excelExporter := exporter.NewExcelExporter()
	chartRenderer := charts.NewChartRenderer()

	var aiRepo repository.AIRepository
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("❌ Gemini error: %v", err)
		}
		aiRepo = client
	} else {
		log.Println("⚠️ GEMINI_API_KEY is empty, AI insights disabled")
	}

	// Use cases
	datasetUC := usecase.NewDatasetUseCase(recordRepo, excelParser)
	analyticsUC := usecase.NewAnalyticsUseCase(recordRepo)
	forecastUC := usecase.NewForecastUseCase(recordRepo)
	cleaningUC := usecase.NewCleaningUseCase(recordRepo)
	adminUC := usecase.NewAdminUseCase(adminRepo, recordRepo, datasetUC, cfg.AdminPassword)
	insightsUC := usecase.NewInsightsUseCase(aiRepo, logRepo, datasetUC)

	if cfg.DatasetPath != "" {
		count, err := datasetUC.LoadFromFile(ctx, cfg.DatasetPath)
		if err != nil {
			log.Fatalf("❌ Failed to load dataset from %s: %v", cfg.DatasetPath, err)
		}
		log.Printf("✅ Loaded %d records from %s", count, cfg.DatasetPath)
	} else {
		log.Println("ℹ️ No DATASET_PATH set, waiting for an admin upload")
	}

	handler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		analyticsUC,
		forecastUC,
		cleaningUC,
		datasetUC,
		adminUC,
		insightsUC,
		excelExporter,
		chartRenderer,
		cfg.ChartsDir,
		cfg.ExportDir,
		cfg.ForecastWindow,
		cfg.ForecastPeriods,
	)
	if err != nil {
		log.Fatalf("❌ Bot error: %v", err)
	}

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ Bot stopped: %v", err)
	}
}
