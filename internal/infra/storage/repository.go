package storage

import (
	"context"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

// ActivityRepository records completed actions for later inspection.
type ActivityRepository interface {
	// Save persists one activity record.
	Save(ctx context.Context, activity *domain.Activity) error

	// List returns the most recent records, newest first. A limit of
	// zero or less returns every record.
	List(ctx context.Context, limit int) ([]*domain.Activity, error)
}
