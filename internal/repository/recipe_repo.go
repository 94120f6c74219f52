package repository

import (
	"context"

	"restaurant/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(ctx context.Context, req *model.RecipeRequirement) error
	Update(ctx context.Context, req *model.RecipeRequirement) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByInventoryItem(ctx context.Context, inventoryItemID uuid.UUID) error
	DeleteByMenuItem(ctx context.Context, menuItemID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RecipeRequirement, error)
	FindByPair(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) (*model.RecipeRequirement, error)
	ListByMenuItems(ctx context.Context, menuItemIDs []uuid.UUID) ([]model.RecipeRequirement, error)
	MenuItemIDsByInventory(ctx context.Context, inventoryItemIDs []uuid.UUID) ([]uuid.UUID, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, req *model.RecipeRequirement) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *recipeRepository) Update(ctx context.Context, req *model.RecipeRequirement) error {
	return GetDB(ctx, r.db).Model(req).
		Select("menu_item_id", "inventory_item_id", "quantity_required").
		Updates(req).Error
}

func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RecipeRequirement{}).Error
}

func (r *recipeRepository) DeleteByInventoryItem(ctx context.Context, inventoryItemID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("inventory_item_id = ?", inventoryItemID).Delete(&model.RecipeRequirement{}).Error
}

func (r *recipeRepository) DeleteByMenuItem(ctx context.Context, menuItemID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("menu_item_id = ?", menuItemID).Delete(&model.RecipeRequirement{}).Error
}

func (r *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RecipeRequirement, error) {
	var req model.RecipeRequirement
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *recipeRepository) FindByPair(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) (*model.RecipeRequirement, error) {
	var req model.RecipeRequirement
	if err := GetDB(ctx, r.db).
		Where("menu_item_id = ? AND inventory_item_id = ?", menuItemID, inventoryItemID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByMenuItems returns the requirements of the given menu items, or of every menu item when ids is nil.
func (r *recipeRepository) ListByMenuItems(ctx context.Context, menuItemIDs []uuid.UUID) ([]model.RecipeRequirement, error) {
	var reqs []model.RecipeRequirement
	db := GetDB(ctx, r.db).Model(&model.RecipeRequirement{})
	if menuItemIDs != nil {
		if len(menuItemIDs) == 0 {
			return reqs, nil
		}
		db = db.Where("menu_item_id IN ?", menuItemIDs)
	}
	if err := db.Order("created_at asc").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// MenuItemIDsByInventory is the dependency index: menu items whose recipe uses any of the given inventory items.
func (r *recipeRepository) MenuItemIDsByInventory(ctx context.Context, inventoryItemIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(inventoryItemIDs) == 0 {
		return ids, nil
	}
	if err := GetDB(ctx, r.db).Model(&model.RecipeRequirement{}).
		Distinct("menu_item_id").
		Where("inventory_item_id IN ?", inventoryItemIDs).
		Pluck("menu_item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
