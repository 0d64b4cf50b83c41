package domain

type SortKey string

const (
	SortNone     SortKey = ""
	SortRating   SortKey = "rating"
	SortPrice    SortKey = "price"
	SortDistance SortKey = "distance"
)

type PriceMode int

const (
	// PriceAny disables the price predicate.
	PriceAny PriceMode = iota
	// PriceExactTier keeps restaurants whose tier equals Tier.
	PriceExactTier
	// PriceCeiling buckets Ceiling into a tier and keeps restaurants at or below it.
	PriceCeiling
)

type PriceFilter struct {
	Mode    PriceMode
	Tier    PriceTier
	Ceiling float64
}

func ExactTier(tier PriceTier) PriceFilter {
	return PriceFilter{Mode: PriceExactTier, Tier: tier}
}

func MaxPrice(ceiling float64) PriceFilter {
	return PriceFilter{Mode: PriceCeiling, Ceiling: ceiling}
}

// FilterCriteria describes one search request. Zero values mean "do not filter".
type FilterCriteria struct {
	Keyword        string
	Categories     []FoodCategory
	Price          PriceFilter
	MinRating      *float64
	VegetarianOnly bool
	SortBy         SortKey
}
