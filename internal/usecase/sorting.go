package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// SortStrategy names one of the fixed catalog orderings.
type SortStrategy string

const (
	SortNewest      SortStrategy = "newest"
	SortPriceAsc    SortStrategy = "price_asc"
	SortPriceDesc   SortStrategy = "price_desc"
	SortNameAsc     SortStrategy = "name_asc"
	SortRatingDesc  SortStrategy = "rating_desc"
	SortPopularDesc SortStrategy = "popular_desc"
	SortDealsDesc   SortStrategy = "deals_desc"
)

// ParseSortStrategy maps a request parameter onto a strategy, defaulting to
// newest for anything unrecognized.
func ParseSortStrategy(s string) SortStrategy {
	strategy := SortStrategy(strings.ToLower(strings.TrimSpace(s)))
	switch strategy {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc, SortPopularDesc, SortDealsDesc, SortNewest:
		return strategy
	}
	return SortNewest
}

// SortProducts orders products in place by the named strategy. Both the
// exact-search path and the fuzzy fallback go through this one function so
// the two paths can never disagree on ordering. All sorts are stable: equal
// keys keep their prior relative order.
func SortProducts(products []domain.Product, strategy SortStrategy) {
	switch strategy {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return sortPrice(&products[i], math.Inf(1)) < sortPrice(&products[j], math.Inf(1))
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return sortPrice(&products[i], 0) > sortPrice(&products[j], 0)
		})
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return ratingOrMissing(&products[i]) > ratingOrMissing(&products[j])
		})
	case SortPopularDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return reviewsOrMissing(&products[i]) > reviewsOrMissing(&products[j])
		})
	case SortDealsDesc:
		sort.SliceStable(products, func(i, j int) bool {
			di, dj := products[i].DiscountAmount(), products[j].DiscountAmount()
			if di != dj {
				return di > dj
			}
			return reviewsOrMissing(&products[i]) > reviewsOrMissing(&products[j])
		})
	default: // newest
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// sortPrice substitutes missing for unset prices so they sort last under
// either direction.
func sortPrice(p *domain.Product, missing float64) float64 {
	if p.Price <= 0 {
		return missing
	}
	return p.Price
}

func ratingOrMissing(p *domain.Product) float64 {
	if p.Rating == nil {
		return -1
	}
	return *p.Rating
}

func reviewsOrMissing(p *domain.Product) int {
	if p.ReviewCount == nil {
		return -1
	}
	return *p.ReviewCount
}

// Value score weights. Rating dominates, review volume saturates at 1000,
// discount depth rewards real markdowns, and price drags the score down.
const (
	valueWeightRating     = 16.0
	valueWeightReviews    = 0.03
	valueWeightDiscount   = 12.0
	valueWeightPrice      = 0.02
	valueReviewSaturation = 1000
)

// ValueScore is the composite recommendation signal used by comparison. It
// is not a selectable sort strategy. Missing rating, review count, and price
// contribute 0.
func ValueScore(p *domain.Product) float64 {
	rating := 0.0
	if p.Rating != nil {
		rating = *p.Rating
	}
	reviews := 0.0
	if p.ReviewCount != nil {
		reviews = float64(*p.ReviewCount)
	}
	if reviews > valueReviewSaturation {
		reviews = valueReviewSaturation
	}
	return rating*valueWeightRating +
		reviews*valueWeightReviews +
		p.DiscountFraction()*valueWeightDiscount -
		p.EffectivePrice()*valueWeightPrice
}
