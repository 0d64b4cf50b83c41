package service

import (
	"context"

	"dietmap/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	Today() string
	TopItems(ctx context.Context, day string, limit int) (domain.Ranking[domain.ItemPopularity], error)
	TopRestaurants(ctx context.Context, day string, limit int) (domain.Ranking[domain.RestaurantPopularity], error)
	UserIntake(ctx context.Context, userID int, day string) (*domain.UserIntake, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)
