package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a sellable dish. IsAvailable is derived from stock and is rewritten
// whenever inventory or the recipe changes; IsOnMenu is the admin visibility switch.
type MenuItem struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string              `gorm:"type:varchar(255);not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string              `gorm:"type:varchar(50);index" json:"category"`
	ImageURL    string              `gorm:"type:varchar(500)" json:"image_url"`
	IsAvailable bool                `gorm:"not null" json:"is_available"`
	IsOnMenu    bool                `gorm:"not null" json:"is_on_menu"`
	Recipe      []RecipeRequirement `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RecipeRequirement is the amount of one inventory item consumed by one unit of a menu item.
type RecipeRequirement struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MenuItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_menu_inventory" json:"menu_item_id"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_menu_inventory;index" json:"inventory_item_id"`
	QuantityRequired decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity_required"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (r *RecipeRequirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
