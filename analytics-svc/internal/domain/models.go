package domain

import "errors"

var ErrStoreUnavailable = errors.New("backing store unavailable")

type ItemPopularity struct {
	ItemID       int     `json:"item_id"`
	ItemName     string  `json:"name"`
	RestaurantID int     `json:"restaurant_id"`
	Score        float64 `json:"score"`
}

type RestaurantPopularity struct {
	RestaurantID int     `json:"restaurant_id"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
}

// UserIntake is a user's running calorie total for one day.
type UserIntake struct {
	UserID   int     `json:"user_id"`
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Entries  int     `json:"entries"`
}

// Ranking is a top-N answer and where it came from.
type Ranking[T any] struct {
	Date   string `json:"date"`
	Source string `json:"source"`
	Items  []T    `json:"items"`
}

const (
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
)
