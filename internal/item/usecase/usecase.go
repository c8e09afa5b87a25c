package usecase

import (
	"context"

	"triage-backend/internal/item/domain"
)

// ItemUsecase defines the item lifecycle operations. All of them are
// scoped by userID; a foreign item is reported as domain.ErrNotFound.
type ItemUsecase interface {
	// List returns active items (or all items with IncludeCleared) by creation order
	List(ctx context.Context, userID string, filter domain.ListFilter) ([]*domain.Item, error)

	// CreateTask creates an active, read task
	CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*domain.Item, error)

	Clear(ctx context.Context, userID, itemID string) (*domain.Item, error)
	Restore(ctx context.Context, userID, itemID string) (*domain.Item, error)
	Move(ctx context.Context, userID, itemID string, lane domain.Lane) (*domain.Item, error)

	// MarkRead commits locally, then propagates upstream for emails on a best-effort basis
	MarkRead(ctx context.Context, userID, itemID string) (*domain.Item, error)

	Rename(ctx context.Context, userID, itemID, title string) (*domain.Item, error)
	Delete(ctx context.Context, userID, itemID string) error
}

// CreateTaskInput is validated before anything is persisted
type CreateTaskInput struct {
	Title   string  `json:"title" validate:"required,max=500"`
	Lane    string  `json:"lane" validate:"required"`
	Snippet *string `json:"snippet,omitempty" validate:"omitempty,max=2000"`
}

// ReadStateReconciler pushes a local read mutation to the mail provider.
// Implementations handle their own failures.
type ReadStateReconciler interface {
	PropagateRead(ctx context.Context, userID, providerMessageID string)
}
