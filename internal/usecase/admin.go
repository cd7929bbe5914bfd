package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// AdminUseCase gates dataset management behind a password login and
// keeps an audit trail of operator actions.
type AdminUseCase interface {
	// Login checks the password and opens an admin session.
	Login(ctx context.Context, userID int64, password string) (bool, error)

	// Logout closes the user's admin session.
	Logout(ctx context.Context, userID int64) error

	// IsAdmin reports whether the user has a live admin session.
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// UploadDataset replaces the dataset from an uploaded spreadsheet.
	// Admin only.
	UploadDataset(ctx context.Context, userID int64, fileData []byte, filename string) (int, error)

	// DatasetInfo describes the loaded dataset.
	DatasetInfo(ctx context.Context) (string, error)

	// ClearAll wipes the dataset. Admin only.
	ClearAll(ctx context.Context, userID int64) error

	// RecordAction logs an operator action against the audit trail.
	RecordAction(ctx context.Context, userID int64, action, details string)

	// RecentActions returns the latest audit trail entries, newest
	// first. Admin only.
	RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error)
}

type adminUseCase struct {
	adminRepo  repository.AdminRepository
	recordRepo repository.RecordRepository
	datasetUC  DatasetUseCase
	password   string
}

// NewAdminUseCase builds the admin use case.
func NewAdminUseCase(
	adminRepo repository.AdminRepository,
	recordRepo repository.RecordRepository,
	datasetUC DatasetUseCase,
	password string,
) AdminUseCase {
	return &adminUseCase{
		adminRepo:  adminRepo,
		recordRepo: recordRepo,
		datasetUC:  datasetUC,
		password:   password,
	}
}

func (u *adminUseCase) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if password != u.password {
		return false, nil
	}

	session := entity.AdminSession{
		UserID:       userID,
		IsAdmin:      true,
		LoginTime:    time.Now(),
		LastActivity: time.Now(),
	}
	if err := u.adminRepo.CreateSession(ctx, session); err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}

	u.RecordAction(ctx, userID, "login", "Operator logged in")
	return true, nil
}

func (u *adminUseCase) Logout(ctx context.Context, userID int64) error {
	return u.adminRepo.DeleteSession(ctx, userID)
}

func (u *adminUseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return u.adminRepo.IsAdmin(ctx, userID)
}

func (u *adminUseCase) UploadDataset(ctx context.Context, userID int64, fileData []byte, filename string) (int, error) {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !isAdmin {
		return 0, fmt.Errorf("user is not admin")
	}

	count, err := u.datasetUC.LoadFromBytes(ctx, fileData, filename)
	if err != nil {
		return 0, err
	}

	u.RecordAction(ctx, userID, "upload_dataset", fmt.Sprintf("Loaded %d records from %s", count, filename))
	return count, nil
}

func (u *adminUseCase) DatasetInfo(ctx context.Context) (string, error) {
	dataset, err := u.recordRepo.GetDataset(ctx)
	if err != nil {
		return "", err
	}

	categories := make(map[string]int)
	for _, r := range dataset.Records {
		categories[ByCategory(r)]++
	}

	info := fmt.Sprintf("📦 Dataset: %s\n", dataset.Source)
	info += fmt.Sprintf("📅 Loaded: %s\n", dataset.LoadedAt.Format("2006-01-02 15:04"))
	info += fmt.Sprintf("📊 Records: %d\n\n", len(dataset.Records))
	info += "📂 Categories:\n"
	for cat, count := range categories {
		info += fmt.Sprintf("  • %s: %d\n", cat, count)
	}
	return info, nil
}

func (u *adminUseCase) ClearAll(ctx context.Context, userID int64) error {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return fmt.Errorf("user is not admin")
	}

	if err := u.recordRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}

	u.RecordAction(ctx, userID, "clear_all", "Cleared dataset")
	return nil
}

func (u *adminUseCase) RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error) {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, fmt.Errorf("user is not admin")
	}
	return u.adminRepo.GetActions(ctx, limit)
}

func (u *adminUseCase) RecordAction(ctx context.Context, userID int64, action, details string) {
	entry := entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	}
	_ = u.adminRepo.LogAction(ctx, entry)
}
