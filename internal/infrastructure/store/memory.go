package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shophub/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory ProductStore. It backs tests and
// development runs; production deployments use the SQLite store.
type MemoryStore struct {
	products map[int64]domain.Product
	nextID   int64
	mutex    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
		nextID:   1,
	}
}

// FindBySourceURL returns the product whose affiliate URL matches exactly,
// or (nil, nil) when none does.
func (s *MemoryStore) FindBySourceURL(ctx context.Context, url string) (*domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, p := range s.products {
		if p.AffiliateURL != "" && p.AffiliateURL == url {
			clone := cloneProduct(p)
			return &clone, nil
		}
	}
	return nil, nil
}

// Create stores a new product and assigns its id and timestamps.
func (s *MemoryStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := cloneProduct(*p)
	stored.ID = s.nextID
	s.nextID++

	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.products[stored.ID] = stored
	result := cloneProduct(stored)
	return &result, nil
}

// Update overwrites an existing product row.
func (s *MemoryStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	stored := cloneProduct(*p)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()

	s.products[stored.ID] = stored
	result := cloneProduct(stored)
	return &result, nil
}

// GetByID returns a single product or ErrProductNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := cloneProduct(p)
	return &clone, nil
}

// GetByIDs returns the products for the given ids, preserving the input
// order. Unknown ids are skipped.
func (s *MemoryStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

// List returns products matching the filter, newest first.
func (s *MemoryStore) List(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var products []domain.Product
	for _, p := range s.products {
		if matchesFilter(&p, filter) {
			products = append(products, cloneProduct(p))
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID > products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// matchesFilter applies every filter field; the text query is a
// case-insensitive substring check over name, description, and category.
func matchesFilter(p *domain.Product, filter domain.SearchFilter) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.Merchant != "" && p.Merchant != filter.Merchant {
		return false
	}
	if filter.DealsOnly && !p.IsDeal {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	if filter.MinRating != nil {
		if p.Rating == nil || *p.Rating < *filter.MinRating {
			return false
		}
	}
	if filter.Query != "" {
		needle := strings.ToLower(filter.Query)
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

// cloneProduct deep-copies a product so callers never alias store-internal
// pointer fields.
func cloneProduct(p domain.Product) domain.Product {
	clone := p
	clone.Rating = clonePtr(p.Rating)
	clone.ReviewCount = clonePtr(p.ReviewCount)
	clone.DealPrice = clonePtr(p.DealPrice)
	clone.OriginalPrice = clonePtr(p.OriginalPrice)
	return clone
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
