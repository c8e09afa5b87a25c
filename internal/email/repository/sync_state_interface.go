package repository

import (
	"context"

	emaildomain "triage-backend/internal/email/domain"
)

// SyncStateRepository defines the interface for per-user sync bookkeeping
type SyncStateRepository interface {
	// Get returns nil, nil when the user has never synced
	Get(ctx context.Context, userID string) (*emaildomain.SyncState, error)
	// Record stores the outcome of a successful sync run
	Record(ctx context.Context, userID string, syncedCount int, nextPageToken string) error
}
