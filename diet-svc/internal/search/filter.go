// Package search filters and orders restaurant snapshots.
package search

import (
	"sort"
	"strings"

	"dietmap/diet-svc/internal/domain"
)

// Filter returns the restaurants that satisfy every predicate set in
// criteria, ordered by criteria.SortBy. The input slice is not modified.
func Filter(restaurants []domain.Restaurant, criteria domain.FilterCriteria) []domain.Restaurant {
	keyword := strings.ToLower(strings.TrimSpace(criteria.Keyword))
	categories := categorySet(criteria.Categories)
	maxTier, priceOK := priceBound(criteria.Price)

	results := make([]domain.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if keyword != "" && !matchesKeyword(r, keyword) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[r.Category]; !ok {
				continue
			}
		}
		if criteria.VegetarianOnly && !r.Vegetarian.IsVegetarian() {
			continue
		}
		if !priceOK {
			continue
		}
		if !matchesPrice(r, criteria.Price, maxTier) {
			continue
		}
		if criteria.MinRating != nil && r.AverageRating < *criteria.MinRating {
			continue
		}
		results = append(results, r)
	}

	Sort(results, criteria.SortBy)
	return results
}

func matchesKeyword(r domain.Restaurant, keyword string) bool {
	if strings.Contains(strings.ToLower(r.Name), keyword) ||
		strings.Contains(strings.ToLower(r.Address), keyword) {
		return true
	}
	for _, item := range r.Menu {
		if strings.Contains(strings.ToLower(item.Name), keyword) {
			return true
		}
	}
	return false
}

func categorySet(categories []domain.FoodCategory) map[domain.FoodCategory]struct{} {
	set := make(map[domain.FoodCategory]struct{}, len(categories))
	for _, c := range categories {
		if c = domain.FoodCategory(strings.TrimSpace(string(c))); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// priceBound resolves the ceiling mode once per query. ok is false when no
// restaurant can pass the predicate.
func priceBound(filter domain.PriceFilter) (maxTier domain.PriceTier, ok bool) {
	if filter.Mode != domain.PriceCeiling {
		return domain.PriceTierUnknown, true
	}
	if filter.Ceiling <= 0 {
		return domain.PriceTierUnknown, false
	}
	tier, limited := TierForCeiling(filter.Ceiling)
	if !limited {
		return domain.PriceTierUnknown, true
	}
	return tier, true
}

func matchesPrice(r domain.Restaurant, filter domain.PriceFilter, maxTier domain.PriceTier) bool {
	switch filter.Mode {
	case domain.PriceExactTier:
		return r.PriceTier == filter.Tier
	case domain.PriceCeiling:
		if maxTier == domain.PriceTierUnknown {
			return true
		}
		return r.PriceTier.Valid() && r.PriceTier <= maxTier
	}
	return true
}

// TierForCeiling maps a maximum spend to the highest affordable tier.
// Ceilings above 600 do not limit the result and report false.
func TierForCeiling(ceiling float64) (domain.PriceTier, bool) {
	switch {
	case ceiling <= 200:
		return domain.PriceTierLow, true
	case ceiling <= 400:
		return domain.PriceTierMid, true
	case ceiling <= 600:
		return domain.PriceTierHigh, true
	}
	return domain.PriceTierUnknown, false
}

// Sort orders restaurants in place. Both supported keys are stable; distance
// and unknown keys keep the input order.
func Sort(restaurants []domain.Restaurant, key domain.SortKey) {
	switch key {
	case domain.SortRating:
		sort.SliceStable(restaurants, func(i, j int) bool {
			return restaurants[i].AverageRating > restaurants[j].AverageRating
		})
	case domain.SortPrice:
		sort.SliceStable(restaurants, func(i, j int) bool {
			return cheaper(restaurants[i], restaurants[j])
		})
	}
}

// cheaper orders by tier; restaurants without a tier come after tiered ones
// and compare by their cheapest menu item, empty menus last.
func cheaper(a, b domain.Restaurant) bool {
	aTier, bTier := a.PriceTier.Valid(), b.PriceTier.Valid()
	switch {
	case aTier && bTier:
		return a.PriceTier < b.PriceTier
	case aTier != bTier:
		return aTier
	}
	aPrice, aOK := a.CheapestPrice()
	bPrice, bOK := b.CheapestPrice()
	switch {
	case aOK && bOK:
		return aPrice < bPrice
	case aOK != bOK:
		return aOK
	}
	return false
}

func ParsePriceSymbol(symbol string) (domain.PriceTier, bool) {
	switch strings.TrimSpace(symbol) {
	case "$":
		return domain.PriceTierLow, true
	case "$$":
		return domain.PriceTierMid, true
	case "$$$":
		return domain.PriceTierHigh, true
	}
	return domain.PriceTierUnknown, false
}

// ParseSortKey accepts the supported keys; anything else keeps input order.
func ParseSortKey(s string) domain.SortKey {
	switch key := domain.SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case domain.SortRating, domain.SortPrice, domain.SortDistance:
		return key
	}
	return domain.SortNone
}
