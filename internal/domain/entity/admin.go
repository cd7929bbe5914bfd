package entity

import "time"

// AdminSession tracks an authenticated operator.
type AdminSession struct {
	UserID       int64
	IsAdmin      bool
	LoginTime    time.Time
	LastActivity time.Time
}

// AdminAction is one audited operator action.
type AdminAction struct {
	ID        string
	UserID    int64
	Action    string // "login", "upload_dataset", "clean", "export"
	Details   string
	Timestamp time.Time
}
