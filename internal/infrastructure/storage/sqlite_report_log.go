package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

type sqliteReportLogRepository struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteReportLogRepository builds a sqlite-backed report log that
// survives restarts, keeping at most maxSize entries per user.
func NewSQLiteReportLogRepository(dbPath string, maxSize int) (repository.ReportLogRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createReportLogSchema(db); err != nil {
		return nil, err
	}

	return &sqliteReportLogRepository{db: db, maxSize: maxSize}, nil
}

func createReportLogSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	params TEXT,
	summary TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_user_ts ON reports (user_id, ts);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *sqliteReportLogRepository) SaveEntry(ctx context.Context, entry entity.ReportEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO reports (id, user_id, kind, params, summary, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Kind, entry.Params, entry.Summary, entry.CreatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	// Trim old entries past the per-user cap
	if s.maxSize > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM reports
WHERE id IN (
  SELECT id FROM reports
  WHERE user_id = ?
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, entry.UserID, s.maxSize)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteReportLogRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]entity.ReportEntry, error) {
	query := `SELECT id, user_id, kind, params, summary, ts FROM reports WHERE user_id = ? ORDER BY ts DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tmp []entity.ReportEntry
	for rows.Next() {
		var entry entity.ReportEntry
		var ts time.Time
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Kind, &entry.Params, &entry.Summary, &ts); err != nil {
			return nil, err
		}
		entry.CreatedAt = ts
		tmp = append(tmp, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	return tmp, nil
}

func (s *sqliteReportLogRepository) ClearHistory(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE user_id = ?`, userID)
	return err
}

// Close releases the underlying database handle.
func (s *sqliteReportLogRepository) Close() error {
	return s.db.Close()
}
