package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// InsightsUseCase answers free-text questions about the dataset and
// keeps the per-user report history.
type InsightsUseCase interface {
	// Ask answers a question grounded on the current dataset report.
	Ask(ctx context.Context, userID int64, question string) (string, error)

	// Enabled reports whether an AI backend is configured.
	Enabled() bool

	// LogReport appends a generated report to the user's history.
	LogReport(ctx context.Context, userID int64, kind, params, summary string) error

	// History returns the user's report history, oldest first.
	History(ctx context.Context, userID int64, limit int) ([]entity.ReportEntry, error)

	// ClearHistory wipes the user's report history.
	ClearHistory(ctx context.Context, userID int64) error
}

type insightsUseCase struct {
	aiRepo    repository.AIRepository // nil when insights are disabled
	logRepo   repository.ReportLogRepository
	datasetUC DatasetUseCase
}

// NewInsightsUseCase builds the insights use case. aiRepo may be nil;
// report logging still works without it.
func NewInsightsUseCase(
	aiRepo repository.AIRepository,
	logRepo repository.ReportLogRepository,
	datasetUC DatasetUseCase,
) InsightsUseCase {
	return &insightsUseCase{
		aiRepo:    aiRepo,
		logRepo:   logRepo,
		datasetUC: datasetUC,
	}
}

func (u *insightsUseCase) Enabled() bool {
	return u.aiRepo != nil
}

func (u *insightsUseCase) Ask(ctx context.Context, userID int64, question string) (string, error) {
	if u.aiRepo == nil {
		return "", fmt.Errorf("AI insights are not configured")
	}

	// Keep AI calls from hanging the handler
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	report, err := u.datasetUC.DatasetAsText(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build dataset context: %w", err)
	}

	answer, err := u.aiRepo.GenerateInsights(ctx, report, question)
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}

	if err := u.LogReport(ctx, userID, "insights", question, answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (u *insightsUseCase) LogReport(ctx context.Context, userID int64, kind, params, summary string) error {
	entry := entity.ReportEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Params:    params,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	if err := u.logRepo.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to save report entry: %w", err)
	}
	return nil
}

func (u *insightsUseCase) History(ctx context.Context, userID int64, limit int) ([]entity.ReportEntry, error) {
	return u.logRepo.GetHistory(ctx, userID, limit)
}

func (u *insightsUseCase) ClearHistory(ctx context.Context, userID int64) error {
	return u.logRepo.ClearHistory(ctx, userID)
}
