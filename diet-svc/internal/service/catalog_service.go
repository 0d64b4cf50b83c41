package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"dietmap/diet-svc/internal/domain"
	"dietmap/diet-svc/internal/search"

	log "github.com/sirupsen/logrus"
)

// Snapshot is an immutable view of the catalogue as of one load.
type Snapshot struct {
	Restaurants []domain.Restaurant
	LoadedAt    time.Time

	byID   map[int]int
	itemAt map[int]domain.MenuItem
}

func NewSnapshot(restaurants []domain.Restaurant, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Restaurants: restaurants,
		LoadedAt:    loadedAt,
		byID:        make(map[int]int, len(restaurants)),
		itemAt:      make(map[int]domain.MenuItem),
	}
	for i, r := range restaurants {
		s.byID[r.ID] = i
		for _, item := range r.Menu {
			s.itemAt[item.ID] = item
		}
	}
	return s
}

func (s *Snapshot) Restaurant(id int) (domain.Restaurant, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Restaurant{}, false
	}
	return s.Restaurants[i], true
}

func (s *Snapshot) Item(id int) (domain.MenuItem, bool) {
	item, ok := s.itemAt[id]
	return item, ok
}

type RestaurantRef struct {
	ID   int    `json:"restaurant_id"`
	Name string `json:"name"`
}

// CatalogService serves searches from the current snapshot. Reload swaps the
// snapshot in one step so readers never see a partial catalogue.
type CatalogService struct {
	repo    RestaurantRepository
	qr      QRGenerator
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

func NewCatalogService(repo RestaurantRepository, qr QRGenerator) *CatalogService {
	s := &CatalogService{repo: repo, qr: qr, now: time.Now}
	s.current.Store(NewSnapshot(nil, time.Time{}))
	return s
}

// Reload replaces the snapshot with a fresh load. On failure the previous
// snapshot stays in place.
func (s *CatalogService) Reload(ctx context.Context) (int, error) {
	restaurants, err := s.repo.LoadAll(ctx)
	if err != nil {
		log.WithError(err).Error("Catalogue reload failed, keeping previous snapshot")
		return 0, fmt.Errorf("reload catalogue: %w", err)
	}
	s.current.Store(NewSnapshot(restaurants, s.now()))
	log.WithField("restaurants", len(restaurants)).Info("Catalogue snapshot loaded")
	return len(restaurants), nil
}

func (s *CatalogService) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *CatalogService) LoadedAt() time.Time {
	return s.current.Load().LoadedAt
}

func (s *CatalogService) Search(criteria domain.FilterCriteria) []domain.Restaurant {
	return search.Filter(s.current.Load().Restaurants, criteria)
}

// Get looks a restaurant up in the snapshot and falls back to the repository
// for restaurants added after the last reload.
func (s *CatalogService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	if r, ok := s.current.Load().Restaurant(id); ok {
		return &r, nil
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (s *CatalogService) Menu(ctx context.Context, id int) ([]domain.MenuItem, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	menu := make([]domain.MenuItem, len(r.Menu))
	copy(menu, r.Menu)
	return menu, nil
}

func (s *CatalogService) Item(id int) (domain.MenuItem, bool) {
	return s.current.Load().Item(id)
}

func (s *CatalogService) RestaurantName(id int) string {
	r, _ := s.current.Load().Restaurant(id)
	return r.Name
}

func (s *CatalogService) List() []RestaurantRef {
	restaurants := s.current.Load().Restaurants
	refs := make([]RestaurantRef, 0, len(restaurants))
	for _, r := range restaurants {
		refs = append(refs, RestaurantRef{ID: r.ID, Name: r.Name})
	}
	return refs
}

func (s *CatalogService) QRCode(ctx context.Context, id int) ([]byte, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.qr == nil {
		return nil, errors.New("qr generator not configured")
	}
	return s.qr.Generate(id)
}
