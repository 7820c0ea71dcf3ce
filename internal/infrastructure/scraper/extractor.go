package scraper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shophub/backend/internal/domain"
)

// Per-field meta tag fallback order: Open Graph first, then the generic name,
// then Twitter cards. Structured-data blocks always take priority over all of
// these.
var (
	titleMetaKeys       = []string{"og:title", "title", "twitter:title"}
	descriptionMetaKeys = []string{"og:description", "description", "twitter:description"}
	imageMetaKeys       = []string{"og:image", "image", "twitter:image"}
	priceMetaKeys       = []string{"og:price:amount", "product:price:amount"}
)

var numericTokenRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Extractor resolves raw product fields from fetched markup, consulting
// embedded structured-data blocks before link-preview meta tags.
type Extractor struct{}

// NewExtractor creates a metadata extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans html for product metadata. It never fails: unparsable markup
// or malformed structured data simply leaves fields unset.
func (e *Extractor) Extract(html string, sourceURL string) *domain.ScrapedProduct {
	record := &domain.ScrapedProduct{SourceURL: sourceURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return record
	}

	blocks := decodeStructuredBlocks(doc)

	record.Title = structuredString(blocks, "name")
	if record.Title == "" {
		record.Title = metaContent(doc, titleMetaKeys)
	}
	if record.Title == "" {
		record.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	record.Description = structuredString(blocks, "description")
	if record.Description == "" {
		record.Description = metaContent(doc, descriptionMetaKeys)
	}

	if candidate, ok := findStructuredValue(blocks, "image"); ok {
		record.ImageURL = resolveImageCandidate(candidate, 0)
	}
	if record.ImageURL == "" {
		record.ImageURL = metaContent(doc, imageMetaKeys)
	}

	if value, ok := findStructuredValue(blocks, "price"); ok {
		record.Price = parsePrice(value)
	}
	if record.Price == nil {
		if text := metaContent(doc, priceMetaKeys); text != "" {
			record.Price = parsePriceText(text)
		}
	}

	if value, ok := findStructuredValue(blocks, "ratingValue"); ok {
		record.Rating = parseNumber(value)
	}
	if value, ok := findStructuredValue(blocks, "reviewCount"); ok {
		record.ReviewCount = parseCount(value)
	}
	if record.ReviewCount == nil {
		if value, ok := findStructuredValue(blocks, "ratingCount"); ok {
			record.ReviewCount = parseCount(value)
		}
	}

	record.Brand = extractBrand(blocks)
	if record.Brand == "" {
		record.Merchant = merchantFromDomain(sourceURL)
	}

	return record
}

// decodeStructuredBlocks parses every ld+json script in document order.
// Malformed blocks are skipped, not fatal.
func decodeStructuredBlocks(doc *goquery.Document) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var block any
		if err := json.Unmarshal([]byte(sel.Text()), &block); err != nil {
			return
		}
		blocks = append(blocks, block)
	})
	return blocks
}

// metaContent returns the content of the first matching meta tag, trying each
// key against both the property and name attributes.
func metaContent(doc *goquery.Document, keys []string) string {
	for _, key := range keys {
		for _, attr := range []string{"property", "name"} {
			selector := fmt.Sprintf(`meta[%s=%q]`, attr, key)
			if content, ok := doc.Find(selector).First().Attr("content"); ok {
				if trimmed := strings.TrimSpace(content); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// resolveImageCandidate handles the shapes structured data uses for images:
// a bare string, a (possibly nested) list where the first resolvable entry
// wins, or an object preferring url, then contentUrl, then thumbnailUrl.
func resolveImageCandidate(candidate any, depth int) string {
	if depth > 8 {
		return ""
	}
	switch value := candidate.(type) {
	case string:
		return strings.TrimSpace(value)
	case []any:
		for _, entry := range value {
			if resolved := resolveImageCandidate(entry, depth+1); resolved != "" {
				return resolved
			}
		}
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "thumbnailUrl"} {
			if s, ok := value[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// extractBrand handles brand declared as either a plain string or an object
// with a name field.
func extractBrand(blocks []any) string {
	value, ok := findStructuredValue(blocks, "brand")
	if !ok {
		return ""
	}
	switch brand := value.(type) {
	case string:
		return strings.TrimSpace(brand)
	case map[string]any:
		if name, ok := brand["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// merchantFromDomain derives a merchant name from the page host: strip a
// leading www, special-case Amazon and its shortlink domain, otherwise use
// the capitalized second-level label.
func merchantFromDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}
	if host == "amzn.to" || strings.Contains(host, "amazon.") {
		return "Amazon"
	}

	labels := strings.Split(host, ".")
	label := labels[0]
	if len(labels) >= 2 {
		label = labels[len(labels)-2]
	}
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// parsePrice coerces a structured-data price, which may arrive as a JSON
// number or as display text.
func parsePrice(value any) *float64 {
	switch price := value.(type) {
	case float64:
		return &price
	case string:
		return parsePriceText(price)
	}
	return nil
}

// parsePriceText strips thousands separators and takes the first numeric
// token. Unparsable text yields nil, never an error.
func parsePriceText(text string) *float64 {
	cleaned := strings.ReplaceAll(text, ",", "")
	token := numericTokenRegex.FindString(cleaned)
	if token == "" {
		return nil
	}
	price, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &price
}

func parseNumber(value any) *float64 {
	switch number := value.(type) {
	case float64:
		return &number
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
		if err != nil {
			return nil
		}
		return &parsed
	}
	return nil
}

func parseCount(value any) *int {
	switch count := value.(type) {
	case float64:
		n := int(count)
		return &n
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(count), ",", "")
		parsed, err := strconv.Atoi(cleaned)
		if err != nil {
			return nil
		}
		return &parsed
	}
	return nil
}
