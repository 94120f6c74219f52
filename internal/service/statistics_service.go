package service

import (
	"context"
	"time"

	"restaurant/internal/model"
	"restaurant/internal/repository"
)

const topMenuItemsLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	statsRepo repository.StatisticsRepository
}

func NewStatisticsService(statsRepo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{statsRepo: statsRepo}
}

// GetStatistics reports revenue and best sellers of completed orders, plus order counts per status,
// for orders created within [startDate, endDate].
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	if endDate.Before(startDate) {
		return model.StatisticsResponse{}, &InputError{Field: "end_date", Reason: "must not be before start_date"}
	}

	response := model.StatisticsResponse{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	revenue, err := s.statsRepo.GetRevenue(ctx, model.OrderStatusCompleted, startDate, endDate)
	if err != nil {
		return model.StatisticsResponse{}, storageErr("statistics revenue", err)
	}
	response.TotalRevenue = revenue

	counts, err := s.statsRepo.CountByStatus(ctx, startDate, endDate)
	if err != nil {
		return model.StatisticsResponse{}, storageErr("statistics counts", err)
	}
	for _, status := range knownStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	response.OrdersByStatus = counts

	top, err := s.statsRepo.GetTopMenuItems(ctx, model.OrderStatusCompleted, startDate, endDate, topMenuItemsLimit)
	if err != nil {
		return model.StatisticsResponse{}, storageErr("statistics top menu items", err)
	}
	if top == nil {
		top = []model.MenuItemRanking{}
	}
	response.TopMenuItems = top

	return response, nil
}
