package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"triage-backend/internal/item/domain"
	"triage-backend/internal/item/repository"
	"triage-backend/pkg/fuzzy"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// itemUsecase implements ItemUsecase interface
type itemUsecase struct {
	itemRepo   repository.ItemRepository
	reconciler ReadStateReconciler
	validate   *validator.Validate
	now        func() time.Time
	log        *logrus.Entry
}

// NewItemUsecase creates a new instance of itemUsecase
func NewItemUsecase(itemRepo repository.ItemRepository, reconciler ReadStateReconciler) ItemUsecase {
	return &itemUsecase{
		itemRepo:   itemRepo,
		reconciler: reconciler,
		validate:   validator.New(),
		now:        func() time.Time { return time.Now().UTC() },
		log:        logrus.WithField("component", "items"),
	}
}

func (u *itemUsecase) List(ctx context.Context, userID string, filter domain.ListFilter) ([]*domain.Item, error) {
	if filter.Lane != nil && !filter.Lane.Valid() {
		return nil, &domain.ValidationError{Field: "lane", Reason: "must be one of reply, action, read, reference"}
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Reason: "must be email or task"}
	}

	items, err := u.itemRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filter.Query) == "" {
		return items, nil
	}

	// Filtering keeps creation order; matches are not ranked.
	matched := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchAny(filter.Query, itemSearchFields(item)...) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func itemSearchFields(item *domain.Item) []string {
	fields := []string{item.Title}
	for _, f := range []*string{item.FromName, item.FromEmail, item.Snippet} {
		if f != nil {
			fields = append(fields, *f)
		}
	}
	return fields
}

func (u *itemUsecase) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*domain.Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := u.validateStruct(input); err != nil {
		return nil, err
	}
	lane, err := domain.ParseLane(input.Lane)
	if err != nil {
		return nil, err
	}

	now := u.now()
	item := &domain.Item{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      domain.TypeTask,
		Lane:      lane,
		Status:    domain.StatusActive,
		Title:     input.Title,
		Snippet:   input.Snippet,
		IsRead:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return item, nil
}

func (u *itemUsecase) Clear(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := u.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Clear(u.now())
	return u.save(ctx, item)
}

func (u *itemUsecase) Restore(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := u.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Restore(u.now()) {
		return item, nil
	}
	return u.save(ctx, item)
}

func (u *itemUsecase) Move(ctx context.Context, userID, itemID string, lane domain.Lane) (*domain.Item, error) {
	if !lane.Valid() {
		return nil, &domain.ValidationError{Field: "lane", Reason: "must be one of reply, action, read, reference"}
	}
	item, err := u.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.MoveTo(lane, u.now()) {
		return item, nil
	}
	return u.save(ctx, item)
}

func (u *itemUsecase) MarkRead(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := u.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if item.MarkRead(u.now()) {
		if _, err := u.save(ctx, item); err != nil {
			return nil, err
		}
	}

	// Already-read emails still propagate so a failed earlier attempt can be retried.
	if item.HasProviderMessage() && u.reconciler != nil {
		u.reconciler.PropagateRead(ctx, userID, *item.ProviderMessageID)
	}
	return item, nil
}

func (u *itemUsecase) Rename(ctx context.Context, userID, itemID, title string) (*domain.Item, error) {
	title = strings.TrimSpace(title)
	if err := u.validate.Var(title, "required,max=500"); err != nil {
		return nil, toValidationError("title", err)
	}
	item, err := u.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Rename(title, u.now()) {
		return item, nil
	}
	return u.save(ctx, item)
}

func (u *itemUsecase) Delete(ctx context.Context, userID, itemID string) error {
	deleted, err := u.itemRepo.Delete(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (u *itemUsecase) get(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := u.itemRepo.FindByID(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (u *itemUsecase) save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := u.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (u *itemUsecase) validateStruct(input interface{}) error {
	err := u.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return toValidationError(strings.ToLower(verrs[0].Field()), verrs[0])
	}
	return err
}

func toValidationError(field string, err error) error {
	var fe validator.FieldError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		fe = verrs[0]
	case errors.As(err, &fe):
	default:
		return &domain.ValidationError{Field: field, Reason: err.Error()}
	}

	switch fe.Tag() {
	case "required":
		return &domain.ValidationError{Field: field, Reason: "is required"}
	case "max":
		return &domain.ValidationError{Field: field, Reason: "must be at most " + fe.Param() + " characters"}
	default:
		return &domain.ValidationError{Field: field, Reason: "failed " + fe.Tag()}
	}
}
