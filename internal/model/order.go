package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus constants
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusCompleted = "completed"
	OrderStatusDeclined  = "declined"
)

// Order is a customer order. UpdatedAt doubles as the time of the last status change,
// which clients add PreparationTime to when counting down to pickup.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	PhoneNumber     string          `gorm:"type:varchar(30);not null;index" json:"phone_number"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PreparationTime *int            `gorm:"type:int" json:"preparation_time"` // minutes, set on approval
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether no further status transitions are allowed.
func (o Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusDeclined
}

// OrderItem is a line of an Order. Price and MenuItemName are snapshots taken at
// order time, not live references to the menu.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	MenuItemName string          `gorm:"type:varchar(255)" json:"menu_item_name"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
