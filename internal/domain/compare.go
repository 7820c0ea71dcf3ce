package domain

// ComparisonRow is the per-product projection used for side-by-side
// comparison. DiscountPercent is nil when the product has no deal pricing.
type ComparisonRow struct {
	ProductID       int64    `json:"product_id"`
	Name            string   `json:"name"`
	EffectivePrice  float64  `json:"effective_price"`
	ListPrice       float64  `json:"list_price"`
	DiscountPercent *float64 `json:"discount_percent"`
	Rating          *float64 `json:"rating"`
	ReviewCount     *int     `json:"review_count"`
	ValueScore      float64  `json:"value_score"`
}

// RecommendationSummary explains which compared product scored best and why.
type RecommendationSummary struct {
	RecommendedID int64    `json:"recommended_id"`
	Reason        string   `json:"reason"`
	KeyPoints     []string `json:"key_points"`
	Confidence    string   `json:"confidence"` // "high" with 3+ products, else "medium"
}
