package repository

import (
	"context"

	"triage-backend/internal/item/domain"
)

// ItemRepository defines data access for items. Every call is scoped by userID.
type ItemRepository interface {
	// Create inserts a new item
	Create(ctx context.Context, item *domain.Item) error

	// InsertEmailIfAbsent inserts an email item unless (user, provider message id)
	// already exists. Returns false when the row was skipped.
	InsertEmailIfAbsent(ctx context.Context, item *domain.Item) (bool, error)

	// FindByID returns nil, nil when no item matches id for userID
	FindByID(ctx context.Context, userID, id string) (*domain.Item, error)

	// List returns items ordered by created_at ascending
	List(ctx context.Context, userID string, filter domain.ListFilter) ([]*domain.Item, error)

	// ProviderMessageIDs returns the provider message ids of the user's email items
	ProviderMessageIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// Update persists the mutable fields of item
	Update(ctx context.Context, item *domain.Item) error

	// Delete returns false when nothing matched
	Delete(ctx context.Context, userID, id string) (bool, error)
}
