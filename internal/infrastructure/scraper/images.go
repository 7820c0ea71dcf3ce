package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// maxImageBytes caps a single image download.
const maxImageBytes = 20 << 20

var recognizedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".gif": true, ".avif": true, ".bmp": true,
}

var contentTypeExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
	"image/bmp":  ".bmp",
}

// ImageImporter downloads a product image and re-hosts it through the blob
// store, streaming the body instead of buffering it. Failures are logged and
// degrade to the original remote URL so the catalog always has some image
// reference.
type ImageImporter struct {
	httpClient *http.Client
	blobs      domain.BlobStore
}

// NewImageImporter creates an image importer backed by the given blob store.
func NewImageImporter(blobs domain.BlobStore) *ImageImporter {
	return &ImageImporter{
		httpClient: &http.Client{Timeout: fetchTimeout},
		blobs:      blobs,
	}
}

// Persist fetches imageURL with the page fetcher's client identity and a
// Referer pointing at the originating page, stores the bytes, and returns the
// stored URL. On any failure it returns imageURL unchanged.
func (i *ImageImporter) Persist(ctx context.Context, imageURL string, refererURL string) string {
	if imageURL == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		log.Printf("[IMAGE] invalid image URL %q: %v", imageURL, err)
		return imageURL
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	if refererURL != "" {
		// Some hosts reject image requests without the originating page.
		req.Header.Set("Referer", refererURL)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		log.Printf("[IMAGE] download failed for %q: %v", imageURL, err)
		return imageURL
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[IMAGE] download failed for %q: status %d", imageURL, resp.StatusCode)
		return imageURL
	}

	ext := imageExtension(imageURL, resp.Header.Get("Content-Type"))
	stored, err := i.blobs.Save(ctx, io.LimitReader(resp.Body, maxImageBytes), ext)
	if err != nil {
		log.Printf("[IMAGE] store failed for %q: %v", imageURL, err)
		return imageURL
	}
	return stored
}

// imageExtension prefers a recognized extension on the URL path, falls back
// to the response content type, and defaults to .jpg.
func imageExtension(imageURL string, contentType string) string {
	trimmed := imageURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if ext := strings.ToLower(path.Ext(trimmed)); recognizedImageExts[ext] {
		return ext
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ext, ok := contentTypeExts[mediaType]; ok {
		return ext
	}
	return ".jpg"
}
