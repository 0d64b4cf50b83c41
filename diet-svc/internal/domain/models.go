package domain

import (
	"math"
	"strings"
	"time"
)

type PriceTier int

const (
	PriceTierUnknown PriceTier = 0
	PriceTierLow     PriceTier = 1
	PriceTierMid     PriceTier = 2
	PriceTierHigh    PriceTier = 3
)

func (t PriceTier) Valid() bool {
	return t >= PriceTierLow && t <= PriceTierHigh
}

type FoodCategory string

// Categories is the label set used by the catalogue dataset.
var Categories = []FoodCategory{"台式", "日式", "義式", "健康餐", "飲品", "韓式"}

func (c FoodCategory) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type VegetarianOption string

const (
	Omnivore           VegetarianOption = "omnivore"
	OvoLactoVegetarian VegetarianOption = "ovo-lacto-vegetarian"
	Vegan              VegetarianOption = "vegan"
)

// ParseVegetarianOption accepts the canonical names and the dataset labels.
// An empty value means omnivore.
func ParseVegetarianOption(s string) (VegetarianOption, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "omnivore", "葷食":
		return Omnivore, true
	case "ovo-lacto-vegetarian", "蛋奶素":
		return OvoLactoVegetarian, true
	case "vegan", "全素":
		return Vegan, true
	}
	return "", false
}

func (v VegetarianOption) IsVegetarian() bool {
	return v == OvoLactoVegetarian || v == Vegan
}

type MealBucket string

const (
	MealBreakfast MealBucket = "breakfast"
	MealLunch     MealBucket = "lunch"
	MealDinner    MealBucket = "dinner"
	MealOther     MealBucket = "other"
)

type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Restaurant struct {
	ID            int              `json:"restaurant_id"`
	Name          string           `json:"name"`
	Address       string           `json:"address"`
	AverageRating float64          `json:"average_rating"`
	PriceTier     PriceTier        `json:"price_range"`
	Category      FoodCategory     `json:"food_type"`
	Vegetarian    VegetarianOption `json:"vegetarian_option"`
	Menu          []MenuItem       `json:"menu_items"`
}

// NewRestaurant validates the scalar fields of a restaurant. Menu items are
// attached afterwards with AddItem.
func NewRestaurant(id int, name, address string, rating float64, tier PriceTier, category FoodCategory, veg VegetarianOption) (Restaurant, error) {
	switch {
	case id <= 0:
		return Restaurant{}, NewValidationError("restaurant_id", "must be positive")
	case strings.TrimSpace(name) == "":
		return Restaurant{}, NewValidationError("name", "is required")
	case math.IsNaN(rating) || rating < 0 || rating > 5:
		return Restaurant{}, NewValidationError("average_rating", "must be between 0 and 5")
	case tier != PriceTierUnknown && !tier.Valid():
		return Restaurant{}, NewValidationError("price_range", "must be 1, 2 or 3")
	case category != "" && !category.Known():
		return Restaurant{}, NewValidationError("food_type", "unknown category "+string(category))
	}
	if veg == "" {
		veg = Omnivore
	}
	if _, ok := ParseVegetarianOption(string(veg)); !ok {
		return Restaurant{}, NewValidationError("vegetarian_option", "unknown option "+string(veg))
	}
	return Restaurant{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Address:       strings.TrimSpace(address),
		AverageRating: rating,
		PriceTier:     tier,
		Category:      category,
		Vegetarian:    veg,
	}, nil
}

// AddItem appends item to the menu. The item must point back at r.
func (r *Restaurant) AddItem(item MenuItem) error {
	if item.RestaurantID != r.ID {
		return NewValidationError("restaurant_id", "menu item belongs to another restaurant")
	}
	r.Menu = append(r.Menu, item)
	return nil
}

// CheapestPrice returns the lowest menu price, or false for an empty menu.
func (r Restaurant) CheapestPrice() (float64, bool) {
	if len(r.Menu) == 0 {
		return 0, false
	}
	cheapest := r.Menu[0].Price
	for _, item := range r.Menu[1:] {
		if item.Price < cheapest {
			cheapest = item.Price
		}
	}
	return cheapest, true
}

type MenuItem struct {
	ID           int     `json:"item_id"`
	RestaurantID int     `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Nutrition
}

func NewMenuItem(id, restaurantID int, name, description string, price float64, facts Nutrition) (MenuItem, error) {
	switch {
	case id <= 0:
		return MenuItem{}, NewValidationError("item_id", "must be positive")
	case restaurantID <= 0:
		return MenuItem{}, NewValidationError("restaurant_id", "must be positive")
	case strings.TrimSpace(name) == "":
		return MenuItem{}, NewValidationError("name", "is required")
	case math.IsNaN(price) || price < 0:
		return MenuItem{}, NewValidationError("price", "must not be negative")
	case facts.Calories < 0:
		return MenuItem{}, NewValidationError("calories", "must not be negative")
	case facts.Protein < 0 || facts.Carbs < 0 || facts.Fat < 0:
		return MenuItem{}, NewValidationError("nutrition", "macros must not be negative")
	}
	facts.Protein = RoundTenth(facts.Protein)
	facts.Carbs = RoundTenth(facts.Carbs)
	facts.Fat = RoundTenth(facts.Fat)
	return MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		Price:        price,
		Nutrition:    facts,
	}, nil
}

func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

type DietLogEntry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ItemID      int       `json:"item_id"`
	Timestamp   time.Time `json:"timestamp"`
	PortionSize float64   `json:"portion_size"`
}

// DietLogRow is a stored entry joined with its menu item and restaurant.
// Base holds the unscaled facts; they are zero when the item no longer exists.
type DietLogRow struct {
	DietLogEntry
	ItemName       string
	RestaurantID   int
	RestaurantName string
	Base           Nutrition
}

type EnrichedEntry struct {
	DietLogEntry
	ItemName       string     `json:"name"`
	RestaurantID   int        `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant"`
	Nutrition      Nutrition  `json:"nutrition"`
	Meal           MealBucket `json:"meal"`
}

type DaySummary struct {
	Date    string                   `json:"date"`
	Totals  Nutrition                `json:"totals"`
	ByMeal  map[MealBucket]Nutrition `json:"by_meal"`
	Targets *Remaining               `json:"remaining,omitempty"`
	Entries []EnrichedEntry          `json:"entries"`
}

// Remaining is what is left of a user's daily targets; negative values mean
// the target was exceeded.
type Remaining struct {
	Calories *int     `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

type User struct {
	ID             int       `json:"user_id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Mode           string    `json:"mode"`
	Budget         float64   `json:"budget"`
	TargetCalories *int      `json:"target_calories,omitempty"`
	TargetProtein  *float64  `json:"target_protein,omitempty"`
	TargetFat      *float64  `json:"target_fat,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Favorite struct {
	UserID       int       `json:"user_id"`
	RestaurantID int       `json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DietEvent is published for every diet-log mutation.
type DietEvent struct {
	Type         string    `json:"type"`
	LogID        int       `json:"log_id"`
	UserID       int       `json:"user_id"`
	ItemID       int       `json:"item_id"`
	RestaurantID int       `json:"restaurant_id"`
	Calories     int       `json:"calories"`
	PortionSize  float64   `json:"portion_size"`
	// PreviousPortion is set on diet_updated events only.
	PreviousPortion float64   `json:"previous_portion,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

const (
	EventDietLogged  = "diet_logged"
	EventDietUpdated = "diet_updated"
	EventDietRemoved = "diet_removed"
)
