package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// New catalog entries start with a small sellable quantity until an operator
// sets the real one.
const defaultImportStock = 10

// ImportResult is the outcome of one URL import.
type ImportResult struct {
	Created        bool            `json:"created"`
	Product        *domain.Product `json:"product"`
	CleanerReport  []string        `json:"cleaner_report"`
	ExtractedSpecs []string        `json:"extracted_specs"`
}

// ImportService turns an external product URL into a catalog entry: fetch,
// extract, clean, re-host the image, then upsert keyed on the resolved URL.
type ImportService struct {
	store     domain.ProductStore
	fetcher   domain.PageFetcher
	extractor domain.PageExtractor
	images    domain.ImageImporter
	cleaner   *Cleaner
}

func NewImportService(
	store domain.ProductStore,
	fetcher domain.PageFetcher,
	extractor domain.PageExtractor,
	images domain.ImageImporter,
) *ImportService {
	return &ImportService{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		images:    images,
		cleaner:   NewCleaner(),
	}
}

// ImportFromURL runs the full import pipeline. Validation and fetch failures
// surface to the caller; extraction and image problems degrade into report
// notes instead.
func (s *ImportService) ImportFromURL(ctx context.Context, rawURL string) (*ImportResult, error) {
	url := strings.TrimSpace(rawURL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, domain.ErrInvalidURL
	}

	finalURL, body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	scraped := s.extractor.Extract(body, finalURL)
	cleaned, report := s.cleaner.Clean(scraped)

	// Placeholders are already local; only remote images get re-hosted.
	if strings.HasPrefix(cleaned.ImageURL, "http://") || strings.HasPrefix(cleaned.ImageURL, "https://") {
		cleaned.ImageURL = s.images.Persist(ctx, cleaned.ImageURL, finalURL)
	}

	product, created, err := s.upsert(ctx, cleaned, finalURL)
	if err != nil {
		return nil, err
	}

	log.Printf("[IMPORT] %s -> product %d (created=%v, %d report notes)",
		finalURL, product.ID, created, len(report))

	return &ImportResult{
		Created:        created,
		Product:        product,
		CleanerReport:  report,
		ExtractedSpecs: cleaned.Specs,
	}, nil
}

// upsert resolves the cleaned record against the catalog by resolved source
// URL: absent URLs create a fresh entry, known ones merge into the existing
// entry without blanking fields the cleaner could not determine.
func (s *ImportService) upsert(ctx context.Context, cleaned *domain.CleanedProduct, finalURL string) (*domain.Product, bool, error) {
	existing, err := s.store.FindBySourceURL(ctx, finalURL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: lookup by source URL: %v", domain.ErrStoreFailure, err)
	}

	if existing == nil {
		product := &domain.Product{
			Name:         cleaned.Name,
			Description:  cleaned.Description,
			Price:        cleaned.Price,
			ImageURL:     cleaned.ImageURL,
			Stock:        defaultImportStock,
			Category:     cleaned.Category,
			AffiliateURL: finalURL,
			Merchant:     cleaned.Merchant,
			Rating:       cleaned.Rating,
			ReviewCount:  cleaned.ReviewCount,
		}
		if cleaned.Price > 0 {
			original := cleaned.Price
			product.OriginalPrice = &original
		}
		created, err := s.store.Create(ctx, product)
		if err != nil {
			return nil, false, fmt.Errorf("%w: create product: %v", domain.ErrStoreFailure, err)
		}
		return created, true, nil
	}

	mergeCleaned(existing, cleaned)
	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return nil, false, fmt.Errorf("%w: update product %d: %v", domain.ErrStoreFailure, existing.ID, err)
	}
	return updated, false, nil
}

// mergeCleaned overwrites only fields the cleaner produced a usable value
// for. Fallback values (placeholder name, placeholder image, zero price,
// defaulted General category) never replace previously known data.
func mergeCleaned(existing *domain.Product, cleaned *domain.CleanedProduct) {
	if cleaned.Name != "" && cleaned.Name != FallbackProductName {
		existing.Name = cleaned.Name
	}
	if cleaned.Description != "" && !cleaned.SyntheticDescription {
		existing.Description = cleaned.Description
	}
	if cleaned.Price > 0 {
		existing.Price = cleaned.Price
		if existing.OriginalPrice == nil {
			original := cleaned.Price
			existing.OriginalPrice = &original
		}
	}
	if cleaned.Category != "" && (cleaned.Category != "General" || existing.Category == "") {
		existing.Category = cleaned.Category
	}
	if cleaned.Merchant != "" {
		existing.Merchant = cleaned.Merchant
	}
	if cleaned.Rating != nil {
		existing.Rating = cleaned.Rating
	}
	if cleaned.ReviewCount != nil {
		existing.ReviewCount = cleaned.ReviewCount
	}
	if cleaned.ImageURL != "" && (!IsPlaceholderImage(cleaned.ImageURL) || existing.ImageURL == "") {
		existing.ImageURL = cleaned.ImageURL
	}
}
