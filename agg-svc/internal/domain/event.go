package domain

import "time"

// DietEvent mirrors the message diet-svc publishes on every diet-log change.
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

// Day is the aggregation bucket of the event, taken in the zone the
// timestamp was written in.
func (e DietEvent) Day() string {
	return e.Timestamp.Format(time.DateOnly)
}
