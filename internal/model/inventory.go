package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a tracked stock ingredient. Name is the human key used for lookups.
type InventoryItem struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string              `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Quantity     decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	Unit         string              `gorm:"type:varchar(30);not null" json:"unit"`
	MinStock     decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0" json:"min_stock"`
	Requirements []RecipeRequirement `gorm:"foreignKey:InventoryItemID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsLowStock reports whether the quantity has fallen to or below the minimum threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinStock)
}

// StockMovement types
const (
	MovementConsumption = "CONSUMPTION"
	MovementAdjustment  = "ADJUSTMENT"
)

// StockMovement records every change to an inventory quantity.
// Shortfall is the part of a consumption that could not be applied because stock ran out.
type StockMovement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_item_id"`
	OrderID         *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"` // nil for manual adjustments
	Type            string          `gorm:"type:varchar(20);not null" json:"type"`
	Requested       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"requested"`
	Applied         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"applied"`
	Shortfall       decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"shortfall"`
	QuantityAfter   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity_after"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
