package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/shophub/backend/internal/domain"
)

const (
	minCompareProducts = 2
	maxCompareProducts = 4
)

// ComparisonResult pairs the per-product rows with the recommendation.
type ComparisonResult struct {
	Rows    []domain.ComparisonRow        `json:"rows"`
	Summary *domain.RecommendationSummary `json:"summary"`
}

// CompareService builds side-by-side comparisons of 2-4 catalog entries and
// recommends the one with the best value score.
type CompareService struct {
	store domain.ProductStore
}

func NewCompareService(store domain.ProductStore) *CompareService {
	return &CompareService{store: store}
}

// Compare loads the requested products and scores them. All ties — best
// value, cheapest, top rated, most reviewed — resolve to the first product
// in request order.
func (s *CompareService) Compare(ctx context.Context, ids []int64) (*ComparisonResult, error) {
	distinct := distinctIDs(ids)
	if len(distinct) < minCompareProducts || len(distinct) > maxCompareProducts {
		return nil, fmt.Errorf("%w: compare requires 2 to 4 distinct product ids", domain.ErrInvalidRequest)
	}

	products, err := s.store.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("%w: load products: %v", domain.ErrStoreFailure, err)
	}
	if len(products) != len(distinct) {
		return nil, fmt.Errorf("%w: one or more compared products do not exist", domain.ErrProductNotFound)
	}

	rows := make([]domain.ComparisonRow, len(products))
	scores := make([]float64, len(products))
	for i := range products {
		p := &products[i]
		scores[i] = ValueScore(p)

		row := domain.ComparisonRow{
			ProductID:      p.ID,
			Name:           p.Name,
			EffectivePrice: p.EffectivePrice(),
			ListPrice:      p.Price,
			Rating:         p.Rating,
			ReviewCount:    p.ReviewCount,
			ValueScore:     round2(scores[i]),
		}
		if fraction := p.DiscountFraction(); fraction > 0 {
			percent := round1(fraction * 100)
			row.DiscountPercent = &percent
		}
		rows[i] = row
	}

	return &ComparisonResult{
		Rows:    rows,
		Summary: s.buildSummary(products, scores),
	}, nil
}

func (s *CompareService) buildSummary(products []domain.Product, scores []float64) *domain.RecommendationSummary {
	best := 0
	cheapest := 0
	topRated := 0
	mostReviewed := 0
	for i := 1; i < len(products); i++ {
		if scores[i] > scores[best] {
			best = i
		}
		if products[i].EffectivePrice() < products[cheapest].EffectivePrice() {
			cheapest = i
		}
		if ratingOrMissing(&products[i]) > ratingOrMissing(&products[topRated]) {
			topRated = i
		}
		if reviewsOrMissing(&products[i]) > reviewsOrMissing(&products[mostReviewed]) {
			mostReviewed = i
		}
	}

	keyPoints := []string{}
	if cheapest != best {
		keyPoints = append(keyPoints, fmt.Sprintf("%s has the lowest price at $%.2f",
			products[cheapest].Name, products[cheapest].EffectivePrice()))
	}
	if topRated != best && products[topRated].Rating != nil {
		keyPoints = append(keyPoints, fmt.Sprintf("%s has the highest rating (%.1f/5)",
			products[topRated].Name, *products[topRated].Rating))
	}
	if mostReviewed != best && products[mostReviewed].ReviewCount != nil {
		keyPoints = append(keyPoints, fmt.Sprintf("%s has the most reviews (%d)",
			products[mostReviewed].Name, *products[mostReviewed].ReviewCount))
	}

	confidence := "medium"
	if len(products) >= 3 {
		confidence = "high"
	}

	return &domain.RecommendationSummary{
		RecommendedID: products[best].ID,
		Reason: fmt.Sprintf("%s offers the best overall value based on rating, reviews, discount, and price",
			products[best].Name),
		KeyPoints:  keyPoints,
		Confidence: confidence,
	}
}

func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	distinct := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	return distinct
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
