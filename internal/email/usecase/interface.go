package usecase

import (
	"context"

	emaildomain "triage-backend/internal/email/domain"
	itemdomain "triage-backend/internal/item/domain"
)

// SyncUsecase ingests new inbox mail as triage items
type SyncUsecase interface {
	// Sync fetches, dedups, classifies and stores new mail; returns the number of items created
	Sync(ctx context.Context, userID string) (int, error)
	// Status returns the last recorded sync outcome, nil if the user never synced
	Status(ctx context.Context, userID string) (*emaildomain.SyncState, error)
}

// AccessTokenProvider yields a valid mail provider token for a user
type AccessTokenProvider interface {
	EnsureValidAccessToken(ctx context.Context, userID string) (string, error)
}

// MailFetcher lists recent inbox mail in provider order
type MailFetcher interface {
	FetchRecent(ctx context.Context, accessToken string, limit int64, pageToken string) (*emaildomain.FetchResult, error)
}

// LabelModifier clears the provider's unread flag on a message
type LabelModifier interface {
	MarkAsRead(ctx context.Context, accessToken, messageID string) error
}

// LaneClassifier assigns one lane per input, in order
type LaneClassifier interface {
	Classify(ctx context.Context, batch []emaildomain.ClassifyInput) ([]itemdomain.Lane, error)
}
