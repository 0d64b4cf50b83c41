package service

import (
	"context"
	"time"

	"dietmap/diet-svc/internal/domain"
)

type RestaurantRepository interface {
	LoadAll(ctx context.Context) ([]domain.Restaurant, error)
	FindByID(ctx context.Context, id int) (*domain.Restaurant, error)
}

type DietLogRepository interface {
	Insert(ctx context.Context, entry *domain.DietLogEntry) error
	Get(ctx context.Context, entryID, userID int) (*domain.DietLogEntry, error)
	QueryByUserAndDate(ctx context.Context, userID int, day time.Time) ([]domain.DietLogRow, error)
	QueryByUser(ctx context.Context, userID, limit int) ([]domain.DietLogRow, error)
	Delete(ctx context.Context, entryID, userID int) (int64, error)
	UpdatePortion(ctx context.Context, entryID, userID int, portion float64) (int64, error)
}

type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID, restaurantID int) error
	RemoveFavorite(ctx context.Context, userID, restaurantID int) (int64, error)
	ListFavorites(ctx context.Context, userID int) ([]domain.Favorite, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

type DietEventPublisher interface {
	PublishDietEvent(ctx context.Context, event domain.DietEvent) error
}

type QRGenerator interface {
	Generate(restaurantID int) ([]byte, error)
}

type CatalogServiceInterface interface {
	Reload(ctx context.Context) (int, error)
	Search(criteria domain.FilterCriteria) []domain.Restaurant
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
	Menu(ctx context.Context, id int) ([]domain.MenuItem, error)
	List() []RestaurantRef
	LoadedAt() time.Time
	QRCode(ctx context.Context, id int) ([]byte, error)
}

type DietServiceInterface interface {
	AddEntry(ctx context.Context, req AddEntryRequest) (int, error)
	ListEntries(ctx context.Context, userID int, day *time.Time) ([]domain.EnrichedEntry, error)
	DeleteEntry(ctx context.Context, entryID, userID int) (bool, error)
	UpdatePortionSize(ctx context.Context, entryID, userID int, portion float64) (bool, error)
	DailySummary(ctx context.Context, userID int, day time.Time) (*domain.DaySummary, error)
	Today() time.Time
}

type FavoriteServiceInterface interface {
	Add(ctx context.Context, userID, restaurantID int) error
	Remove(ctx context.Context, userID, restaurantID int) (bool, error)
	List(ctx context.Context, userID int) ([]domain.Restaurant, error)
}

type UserServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, userID int) (*domain.User, error)
	ParseToken(token string) (int, error)
}

var (
	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ DietServiceInterface     = (*DietService)(nil)
	_ FavoriteServiceInterface = (*FavoriteService)(nil)
	_ UserServiceInterface     = (*UserService)(nil)
)
