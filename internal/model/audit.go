package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateInventoryItem = "CREATE_INVENTORY_ITEM"
	ActionUpdateInventoryItem = "UPDATE_INVENTORY_ITEM"
	ActionDeleteInventoryItem = "DELETE_INVENTORY_ITEM"
	ActionCreateMenuItem      = "CREATE_MENU_ITEM"
	ActionUpdateMenuItem      = "UPDATE_MENU_ITEM"
	ActionDeleteMenuItem      = "DELETE_MENU_ITEM"
	ActionToggleAvailability  = "TOGGLE_AVAILABILITY"
	ActionUpsertRecipe        = "UPSERT_RECIPE_REQUIREMENT"
	ActionDeleteRecipe        = "DELETE_RECIPE_REQUIREMENT"

	// Order workflow actions
	ActionCreateOrder   = "CREATE_ORDER"
	ActionApproveOrder  = "APPROVE_ORDER"
	ActionDeclineOrder  = "DECLINE_ORDER"
	ActionCompleteOrder = "COMPLETE_ORDER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Actor      string    `gorm:"type:varchar(255);index" json:"actor"` // token subject, or customer phone for public calls
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
