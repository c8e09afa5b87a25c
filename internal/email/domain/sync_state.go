package domain

import "time"

// SyncState records the outcome of the last successful sync per user.
type SyncState struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"not null;uniqueIndex"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	LastSyncedCount int        `json:"last_synced_count"`
	NextPageToken   string     `json:"next_page_token,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (SyncState) TableName() string {
	return "mail_sync_states"
}
