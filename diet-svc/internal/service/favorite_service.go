package service

import (
	"context"
	"errors"

	"dietmap/diet-svc/internal/domain"
)

// RestaurantLookup is the part of the catalogue favorites need.
type RestaurantLookup interface {
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
}

type FavoriteService struct {
	repo    FavoriteRepository
	catalog RestaurantLookup
}

func NewFavoriteService(repo FavoriteRepository, catalog RestaurantLookup) *FavoriteService {
	return &FavoriteService{repo: repo, catalog: catalog}
}

// Add is idempotent; the restaurant must exist.
func (s *FavoriteService) Add(ctx context.Context, userID, restaurantID int) error {
	if restaurantID <= 0 {
		return domain.NewValidationError("restaurant_id", "is required")
	}
	if _, err := s.catalog.Get(ctx, restaurantID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, restaurantID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, restaurantID int) (bool, error) {
	affected, err := s.repo.RemoveFavorite(ctx, userID, restaurantID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List resolves favorites against the catalogue. Restaurants that no longer
// exist are skipped.
func (s *FavoriteService) List(ctx context.Context, userID int) ([]domain.Restaurant, error) {
	favorites, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	restaurants := make([]domain.Restaurant, 0, len(favorites))
	for _, f := range favorites {
		r, err := s.catalog.Get(ctx, f.RestaurantID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *r)
	}
	return restaurants, nil
}
