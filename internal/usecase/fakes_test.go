package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shophub/backend/internal/domain"
)

// fakeStore is an in-memory ProductStore for service tests. Set failWith to
// make every call fail.
type fakeStore struct {
	products []domain.Product
	nextID   int64
	creates  int
	updates  int
	failWith error
}

func newFakeStore(products ...domain.Product) *fakeStore {
	s := &fakeStore{}
	for _, p := range products {
		if p.ID == 0 {
			s.nextID++
			p.ID = s.nextID
		} else if p.ID > s.nextID {
			s.nextID = p.ID
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Date(2024, 1, int(p.ID), 0, 0, 0, 0, time.UTC)
		}
		s.products = append(s.products, p)
	}
	return s
}

func (s *fakeStore) FindBySourceURL(ctx context.Context, url string) (*domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.products {
		if s.products[i].AffiliateURL == url {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.creates++
	s.nextID++
	stored := *p
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.products = append(s.products, stored)
	return &stored, nil
}

func (s *fakeStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.updates++
			s.products[i] = *p
			stored := *p
			return &stored, nil
		}
	}
	return nil, errors.New("no such product")
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *fakeStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	found := []domain.Product{}
	for _, id := range ids {
		for i := range s.products {
			if s.products[i].ID == id {
				found = append(found, s.products[i])
				break
			}
		}
	}
	return found, nil
}

func (s *fakeStore) List(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	matched := []domain.Product{}
	for _, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Merchant != "" && p.Merchant != filter.Merchant {
			continue
		}
		if filter.DealsOnly && !p.IsDeal {
			continue
		}
		if filter.Query != "" {
			haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
			if !strings.Contains(haystack, strings.ToLower(filter.Query)) {
				continue
			}
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// Scraper pipeline fakes.

type fakeFetcher struct {
	finalURL string
	body     string
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	finalURL := f.finalURL
	if finalURL == "" {
		finalURL = url
	}
	return finalURL, f.body, nil
}

type fakeExtractor struct {
	record *domain.ScrapedProduct
}

func (f *fakeExtractor) Extract(html, sourceURL string) *domain.ScrapedProduct {
	record := *f.record
	record.SourceURL = sourceURL
	return &record
}

type fakeImageImporter struct {
	storedURL string
	calls     int
}

func (f *fakeImageImporter) Persist(ctx context.Context, imageURL, refererURL string) string {
	f.calls++
	if f.storedURL != "" {
		return f.storedURL
	}
	return imageURL
}

func floatPointer(v float64) *float64 { return &v }
func intPointer(v int) *int           { return &v }
