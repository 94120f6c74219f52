package repository

import (
	"context"

	"restaurant/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	FindByIDWithRecipe(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	List(ctx context.Context, onMenuOnly bool, category string) ([]model.MenuItem, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(item).Error
}

// Update writes the admin-editable columns. is_available is owned by the
// availability evaluator and is never written here.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	return GetDB(ctx, r.db).Model(item).
		Select("name", "description", "price", "category", "image_url", "is_on_menu").
		Updates(item).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MenuItem{}).Error
}

func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) FindByIDWithRecipe(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := GetDB(ctx, r.db).Preload("Recipe").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) List(ctx context.Context, onMenuOnly bool, category string) ([]model.MenuItem, error) {
	var items []model.MenuItem
	db := GetDB(ctx, r.db).Model(&model.MenuItem{})
	if onMenuOnly {
		db = db.Where("is_on_menu = ?", true)
	}
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if err := db.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := GetDB(ctx, r.db).Model(&model.MenuItem{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// LockForUpdate locks the given menu item rows in ascending id order and returns the ids that exist.
// Concurrent availability writers for the same item are serialized on these locks.
func (r *menuRepository) LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var locked []uuid.UUID
	if len(ids) == 0 {
		return locked, nil
	}
	if err := ForUpdate(GetDB(ctx, r.db)).Model(&model.MenuItem{}).
		Where("id IN ?", ids).
		Order("id asc").
		Pluck("id", &locked).Error; err != nil {
		return nil, err
	}
	return locked, nil
}

func (r *menuRepository) SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&model.MenuItem{}).
		Where("id IN ?", ids).
		Update("is_available", available).Error
}
