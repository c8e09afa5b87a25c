package repository

import (
	"context"
	"errors"

	"triage-backend/internal/item/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormItemRepository implements ItemRepository using GORM
type gormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM-based ItemRepository
func NewGormItemRepository(db *gorm.DB) ItemRepository {
	return &gormItemRepository{db: db}
}

func (r *gormItemRepository) Create(ctx context.Context, item *domain.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormItemRepository) InsertEmailIfAbsent(ctx context.Context, item *domain.Item) (bool, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormItemRepository) FindByID(ctx context.Context, userID, id string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormItemRepository) List(ctx context.Context, userID string, filter domain.ListFilter) ([]*domain.Item, error) {
	query := r.db.WithContext(ctx).Model(&domain.Item{}).Where("user_id = ?", userID)

	if !filter.IncludeCleared {
		query = query.Where("status = ?", domain.StatusActive)
	}
	if filter.Lane != nil {
		query = query.Where("lane = ?", *filter.Lane)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	items := []*domain.Item{}
	err := query.Order("created_at ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *gormItemRepository) ProviderMessageIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("user_id = ? AND type = ? AND provider_message_id IS NOT NULL", userID, domain.TypeEmail).
		Pluck("provider_message_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *gormItemRepository) Update(ctx context.Context, item *domain.Item) error {
	result := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(map[string]interface{}{
			"lane":       item.Lane,
			"status":     item.Status,
			"title":      item.Title,
			"is_read":    item.IsRead,
			"cleared_at": item.ClearedAt,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormItemRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Item{})
	return result.RowsAffected > 0, result.Error
}
