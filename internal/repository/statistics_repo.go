package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatisticsRepository interface {
	GetRevenue(ctx context.Context, status string, start, end time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error)
	GetTopMenuItems(ctx context.Context, status string, start, end time.Time, limit int) ([]model.MenuItemRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) GetRevenue(ctx context.Context, status string, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Value decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0) as value").
		Where("status = ? AND created_at >= ? AND created_at <= ?", status, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query revenue: %w", err)
	}
	return result.Value, nil
}

func (r *statisticsRepository) CountByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GetTopMenuItems ranks by the name snapshot on order lines, so deleted menu items still appear.
func (r *statisticsRepository) GetTopMenuItems(ctx context.Context, status string, start, end time.Time, limit int) ([]model.MenuItemRanking, error) {
	var rankings []model.MenuItemRanking
	if err := GetDB(ctx, r.db).Table("order_items").
		Select("order_items.menu_item_id as menu_item_id, order_items.menu_item_name as menu_item_name, SUM(order_items.quantity) as total_quantity, SUM(order_items.quantity * order_items.price) as total_value").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.created_at >= ? AND orders.created_at <= ?", status, start, end).
		Group("order_items.menu_item_id, order_items.menu_item_name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top menu items: %w", err)
	}
	return rankings, nil
}
