package repository

import (
	"context"

	"restaurant/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByName(ctx context.Context, name string) (*model.InventoryItem, error)
	List(ctx context.Context, lowStockOnly bool) ([]model.InventoryItem, error)
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error)
	QuantitiesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(item).Error
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Model(item).Select("name", "quantity", "unit", "min_stock").Updates(item).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.InventoryItem{}).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByName(ctx context.Context, name string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, lowStockOnly bool) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if lowStockOnly {
		db = db.Where("quantity <= min_stock")
	}
	if err := db.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDsForUpdate locks the given rows in ascending id order so that concurrent
// deductions touching overlapping items always acquire locks in the same sequence.
func (r *inventoryRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := ForUpdate(GetDB(ctx, r.db)).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) QuantitiesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return quantities, nil
	}

	var rows []struct {
		ID       uuid.UUID
		Quantity decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Select("id, quantity").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		quantities[row.ID] = row.Quantity
	}
	return quantities, nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.InventoryItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}
