// Package nutrition scales, sums and classifies logged food.
package nutrition

import (
	"math"
	"time"

	"dietmap/diet-svc/internal/domain"
)

// Scale multiplies base facts by portion. Calories round to the nearest
// integer and macros to one decimal.
func Scale(base domain.Nutrition, portion float64) domain.Nutrition {
	return domain.Nutrition{
		Calories: int(math.Round(float64(base.Calories) * portion)),
		Protein:  domain.RoundTenth(base.Protein * portion),
		Carbs:    domain.RoundTenth(base.Carbs * portion),
		Fat:      domain.RoundTenth(base.Fat * portion),
	}
}

type sum struct {
	calories, protein, carbs, fat float64
}

func (s *sum) add(base domain.Nutrition, portion float64) {
	s.calories += float64(base.Calories) * portion
	s.protein += base.Protein * portion
	s.carbs += base.Carbs * portion
	s.fat += base.Fat * portion
}

func (s sum) rounded() domain.Nutrition {
	return domain.Nutrition{
		Calories: int(math.Round(s.calories)),
		Protein:  domain.RoundTenth(s.protein),
		Carbs:    domain.RoundTenth(s.carbs),
		Fat:      domain.RoundTenth(s.fat),
	}
}

// Totals sums fact*portion over rows and rounds once at the end.
func Totals(rows []domain.DietLogRow) domain.Nutrition {
	var s sum
	for _, row := range rows {
		s.add(row.Base, row.PortionSize)
	}
	return s.rounded()
}

// TotalsByMeal groups rows by the bucket of their timestamp. Every bucket is
// present in the result.
func TotalsByMeal(rows []domain.DietLogRow) map[domain.MealBucket]domain.Nutrition {
	sums := map[domain.MealBucket]*sum{
		domain.MealBreakfast: {},
		domain.MealLunch:     {},
		domain.MealDinner:    {},
		domain.MealOther:     {},
	}
	for _, row := range rows {
		sums[Classify(row.Timestamp)].add(row.Base, row.PortionSize)
	}
	out := make(map[domain.MealBucket]domain.Nutrition, len(sums))
	for bucket, s := range sums {
		out[bucket] = s.rounded()
	}
	return out
}

// Classify buckets a timestamp by its wall-clock hour. The timestamp is used
// as given; callers pass local times.
func Classify(t time.Time) domain.MealBucket {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 11:
		return domain.MealBreakfast
	case hour >= 11 && hour < 17:
		return domain.MealLunch
	case hour >= 17 && hour < 22:
		return domain.MealDinner
	}
	return domain.MealOther
}

// SlotHour is the wall-clock hour synthesized for a named meal. Classify maps
// each of these hours back to the same bucket.
func SlotHour(bucket domain.MealBucket) (int, bool) {
	switch bucket {
	case domain.MealBreakfast:
		return 8, true
	case domain.MealLunch:
		return 12, true
	case domain.MealDinner:
		return 18, true
	}
	return 0, false
}

// Remaining compares totals with the user's targets. It returns nil when the
// user has no targets.
func Remaining(totals domain.Nutrition, user *domain.User) *domain.Remaining {
	if user == nil || (user.TargetCalories == nil && user.TargetProtein == nil && user.TargetFat == nil) {
		return nil
	}
	var out domain.Remaining
	if user.TargetCalories != nil {
		v := *user.TargetCalories - totals.Calories
		out.Calories = &v
	}
	if user.TargetProtein != nil {
		v := domain.RoundTenth(*user.TargetProtein - totals.Protein)
		out.Protein = &v
	}
	if user.TargetFat != nil {
		v := domain.RoundTenth(*user.TargetFat - totals.Fat)
		out.Fat = &v
	}
	return &out
}
