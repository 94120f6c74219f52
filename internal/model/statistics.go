package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsResponse aggregates completed-order revenue and best sellers over a time range
type StatisticsResponse struct {
	TotalRevenue       decimal.Decimal   `json:"total_revenue"`
	OrdersByStatus     map[string]int64  `json:"orders_by_status"`
	TopMenuItems       []MenuItemRanking `json:"top_menu_items"`
	TimeRangeStartDate time.Time         `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time         `json:"time_range_end_date"`
}

// MenuItemRanking represents a menu item ranked by quantity sold in completed orders
type MenuItemRanking struct {
	MenuItemID    string          `json:"menu_item_id"`
	MenuItemName  string          `json:"menu_item_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
