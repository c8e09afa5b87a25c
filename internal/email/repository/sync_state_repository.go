package repository

import (
	"context"
	"errors"
	"time"

	emaildomain "triage-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncStateRepository implements SyncStateRepository interface
type syncStateRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSyncStateRepository creates a new instance of syncStateRepository
func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *syncStateRepository) Get(ctx context.Context, userID string) (*emaildomain.SyncState, error) {
	var state emaildomain.SyncState
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// Record upserts the state row in one statement
func (r *syncStateRepository) Record(ctx context.Context, userID string, syncedCount int, nextPageToken string) error {
	now := r.now()
	state := emaildomain.SyncState{
		ID:              uuid.New().String(),
		UserID:          userID,
		LastSyncAt:      &now,
		LastSyncedCount: syncedCount,
		NextPageToken:   nextPageToken,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_sync_at", "last_synced_count", "next_page_token", "updated_at"}),
	}).Create(&state).Error
}
