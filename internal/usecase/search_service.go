package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// SearchConfig tunes the fuzzy fallback. Zero values pick the defaults.
type SearchConfig struct {
	FuzzyThreshold   float64 // minimum score for fuzzy search results
	SuggestThreshold float64 // minimum score for suggestion candidates
}

const (
	defaultFuzzyThreshold   = 0.45
	defaultSuggestThreshold = 0.5
	defaultSuggestLimit     = 8
	maxSuggestLimit         = 20
)

// SearchService serves filtered catalog listings with a fuzzy fallback when
// an exact query matches nothing, plus type-ahead suggestions.
type SearchService struct {
	store            domain.ProductStore
	fuzzyThreshold   float64
	suggestThreshold float64
}

func NewSearchService(store domain.ProductStore, cfg SearchConfig) *SearchService {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = defaultFuzzyThreshold
	}
	if cfg.SuggestThreshold <= 0 {
		cfg.SuggestThreshold = defaultSuggestThreshold
	}
	return &SearchService{
		store:            store,
		fuzzyThreshold:   cfg.FuzzyThreshold,
		suggestThreshold: cfg.SuggestThreshold,
	}
}

// Search lists products matching the filter under the given sort strategy.
// When the text query matches nothing exactly, the same filters are re-run
// without it and the candidates are re-scored fuzzily; survivors come back
// ranked by score, with the sort strategy breaking ties.
func (s *SearchService) Search(ctx context.Context, filter domain.SearchFilter, strategy SortStrategy) ([]domain.Product, error) {
	products, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}

	if len(products) == 0 && strings.TrimSpace(filter.Query) != "" {
		products, err = s.fuzzyFallback(ctx, filter, strategy)
		if err != nil {
			return nil, err
		}
	} else {
		SortProducts(products, strategy)
	}

	if filter.Limit > 0 && len(products) > filter.Limit {
		products = products[:filter.Limit]
	}
	return products, nil
}

func (s *SearchService) fuzzyFallback(ctx context.Context, filter domain.SearchFilter, strategy SortStrategy) ([]domain.Product, error) {
	candidates, err := s.store.List(ctx, filter.WithoutQuery())
	if err != nil {
		return nil, fmt.Errorf("%w: list fuzzy candidates: %v", domain.ErrStoreFailure, err)
	}

	matched := make([]domain.Product, 0, len(candidates))
	scores := make(map[int64]float64, len(candidates))
	for i := range candidates {
		score := MatchScore(filter.Query, &candidates[i])
		if score >= s.fuzzyThreshold {
			matched = append(matched, candidates[i])
			scores[candidates[i].ID] = score
		}
	}

	// Strategy order first, then a stable score sort on top, so equal
	// scores fall back to the requested ordering.
	SortProducts(matched, strategy)
	sort.SliceStable(matched, func(i, j int) bool {
		return scores[matched[i].ID] > scores[matched[j].ID]
	})

	log.Printf("[SEARCH] fuzzy fallback for %q matched %d of %d candidates",
		filter.Query, len(matched), len(candidates))
	return matched, nil
}

// Suggest returns up to limit distinct strings (product names and
// categories) fuzzily matching the query, best matches first. Limit is
// clamped to 1..20 and defaults to 8.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	products, err := s.store.List(ctx, domain.SearchFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}

	type suggestion struct {
		text  string
		score float64
	}
	seen := map[string]bool{}
	suggestions := []suggestion{}
	consider := func(text string) {
		key := strings.ToLower(strings.TrimSpace(text))
		if key == "" || seen[key] {
			return
		}
		if score := fieldScore(query, text); score >= s.suggestThreshold {
			seen[key] = true
			suggestions = append(suggestions, suggestion{text: text, score: score})
		}
	}
	for i := range products {
		consider(products[i].Name)
		consider(products[i].Category)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].score > suggestions[j].score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	results := make([]string, len(suggestions))
	for i, sg := range suggestions {
		results[i] = sg.text
	}
	return results, nil
}
