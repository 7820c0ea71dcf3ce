package domain

import (
	"context"
	"io"
)

// ProductStore defines the catalog persistence interface. FindBySourceURL
// returns (nil, nil) when no product carries the URL. List returns matching
// products newest-first; limiting and non-default ordering are applied by the
// search service so the fuzzy and exact paths share one sort implementation.
type ProductStore interface {
	FindBySourceURL(ctx context.Context, url string) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	List(ctx context.Context, filter SearchFilter) ([]Product, error)
}

// BlobStore persists a byte stream and returns a retrievable URL for it.
type BlobStore interface {
	Save(ctx context.Context, r io.Reader, extension string) (string, error)
}

// PageFetcher retrieves a product page, following redirects, and reports the
// final resolved URL alongside the body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (finalURL string, body string, err error)
}

// PageExtractor turns fetched markup into raw candidate product fields.
type PageExtractor interface {
	Extract(html string, sourceURL string) *ScrapedProduct
}

// ImageImporter re-hosts a remote product image. It never fails: on any
// download or storage error it returns the original remote URL unchanged.
type ImageImporter interface {
	Persist(ctx context.Context, imageURL string, refererURL string) string
}
