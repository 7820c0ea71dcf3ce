package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shophub/backend/internal/domain"
)

func searchCatalog() *fakeStore {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return newFakeStore(
		domain.Product{ID: 1, Name: "Wireless Speaker", Category: "Electronics",
			Description: "Portable bluetooth speaker", Price: 79,
			Rating: floatPointer(4.5), ReviewCount: intPointer(320), CreatedAt: base},
		domain.Product{ID: 2, Name: "USB-C Charger", Category: "Electronics",
			Description: "Fast wall charger", Price: 25,
			Rating: floatPointer(4.1), ReviewCount: intPointer(90), CreatedAt: base.Add(time.Hour)},
		domain.Product{ID: 3, Name: "Noise-Cancelling Headphones", Category: "Electronics",
			Description: "Over-ear headphones", Price: 199,
			Rating: floatPointer(4.7), ReviewCount: intPointer(1500), CreatedAt: base.Add(2 * time.Hour)},
		domain.Product{ID: 4, Name: "Desk Lamp", Category: "Home",
			Description: "Adjustable reading lamp", Price: 35,
			Rating: floatPointer(4.0), ReviewCount: intPointer(60), CreatedAt: base.Add(3 * time.Hour)},
	)
}

func TestSearchExactPath(t *testing.T) {
	svc := NewSearchService(searchCatalog(), SearchConfig{})
	ctx := context.Background()

	t.Run("substring query", func(t *testing.T) {
		results, err := svc.Search(ctx, domain.SearchFilter{Query: "speaker"}, SortNewest)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 || results[0].ID != 1 {
			t.Errorf("results = %v, want just the speaker", ids(results))
		}
	})

	t.Run("category filter with sort", func(t *testing.T) {
		results, err := svc.Search(ctx, domain.SearchFilter{Category: "Electronics"}, SortPriceAsc)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		assertOrder(t, results, 2, 1, 3)
	})

	t.Run("limit applies after sorting", func(t *testing.T) {
		results, err := svc.Search(ctx, domain.SearchFilter{Limit: 2}, SortPriceAsc)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		assertOrder(t, results, 2, 4)
	})

	t.Run("store failure", func(t *testing.T) {
		store := searchCatalog()
		store.failWith = errors.New("disk on fire")
		_, err := NewSearchService(store, SearchConfig{}).Search(ctx, domain.SearchFilter{}, SortNewest)
		if !errors.Is(err, domain.ErrStoreFailure) {
			t.Errorf("error = %v, want ErrStoreFailure", err)
		}
	})
}

// A misspelled query with zero exact matches must fall back to fuzzy scoring
// and still surface the intended product first.
func TestSearchFuzzyFallback(t *testing.T) {
	svc := NewSearchService(searchCatalog(), SearchConfig{})
	ctx := context.Background()

	t.Run("misspelled query", func(t *testing.T) {
		results, err := svc.Search(ctx,
			domain.SearchFilter{Category: "Electronics", Query: "blutooth speeker"}, SortNewest)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) == 0 {
			t.Fatal("fuzzy fallback returned nothing")
		}
		if results[0].ID != 1 {
			t.Errorf("results = %v, want the wireless speaker ranked first", ids(results))
		}
		for _, p := range results {
			if p.Category != "Home" {
				continue
			}
			t.Errorf("fuzzy fallback leaked product %d outside the category filter", p.ID)
		}
	})

	t.Run("gibberish stays empty", func(t *testing.T) {
		results, err := svc.Search(ctx, domain.SearchFilter{Query: "qqqqxxxx"}, SortNewest)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, want none", ids(results))
		}
	})

	t.Run("fuzzy results honor limit", func(t *testing.T) {
		results, err := svc.Search(ctx, domain.SearchFilter{Query: "chargr", Limit: 1}, SortNewest)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) > 1 {
			t.Errorf("got %d results, want at most 1", len(results))
		}
	})
}

func TestSuggest(t *testing.T) {
	svc := NewSearchService(searchCatalog(), SearchConfig{})
	ctx := context.Background()

	t.Run("prefix query", func(t *testing.T) {
		suggestions, err := svc.Suggest(ctx, "head", 5)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(suggestions) == 0 || len(suggestions) > 5 {
			t.Fatalf("suggestions = %v, want 1..5 entries", suggestions)
		}
		found := false
		for _, s := range suggestions {
			if s == "Noise-Cancelling Headphones" {
				found = true
			}
		}
		if !found {
			t.Errorf("suggestions = %v, want the headphones entry", suggestions)
		}
	})

	t.Run("distinct strings", func(t *testing.T) {
		suggestions, err := svc.Suggest(ctx, "electronics", 10)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		count := 0
		for _, s := range suggestions {
			if s == "Electronics" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("suggestions = %v, want Electronics exactly once", suggestions)
		}
	})

	t.Run("limit clamped to 20", func(t *testing.T) {
		suggestions, err := svc.Suggest(ctx, "e", 500)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(suggestions) > 20 {
			t.Errorf("got %d suggestions, want <= 20", len(suggestions))
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.Suggest(ctx, "  ", 5)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}
