package dto

import "time"

type SyncResponse struct {
	Synced int `json:"synced"`
}

type SyncStatusResponse struct {
	Synced          bool       `json:"synced"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	LastSyncedCount int        `json:"last_synced_count"`
	NextPageToken   string     `json:"next_page_token,omitempty"`
}
