package repository

import (
	"context"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

// AdminRepository stores operator sessions and their audit trail.
type AdminRepository interface {
	// CreateSession stores an admin session.
	CreateSession(ctx context.Context, session entity.AdminSession) error

	// GetSession returns a user's session, if any.
	GetSession(ctx context.Context, userID int64) (*entity.AdminSession, error)

	// DeleteSession removes a user's session.
	DeleteSession(ctx context.Context, userID int64) error

	// IsAdmin reports whether the user has a live admin session.
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// LogAction records an operator action.
	LogAction(ctx context.Context, action entity.AdminAction) error

	// GetActions returns the most recent actions, newest first.
	// limit <= 0 means no limit.
	GetActions(ctx context.Context, limit int) ([]entity.AdminAction, error)
}
