package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// FallbackProductName is used when title cleanup leaves nothing behind. The
// upsert treats it as "unknown" and never overwrites a real name with it.
const FallbackProductName = "Imported Product"

const maxSpecs = 8

// titleRule strips one kind of boilerplate from a scraped title.
type titleRule struct {
	pattern *regexp.Regexp
	note    string
}

// Ordered: site prefixes first, then marketing trailers, then generic
// branding after a separator.
var titleRules = []titleRule{
	{regexp.MustCompile(`(?i)^\s*(?:amazon|walmart|ebay|etsy|target)(?:\.\w+)*\s*:\s*`), "removed site prefix from title"},
	{regexp.MustCompile(`(?i)\s*[-|:–]\s*(?:buy|shop|order)\s+(?:now|online).*$`), "removed marketing trailer from title"},
	{regexp.MustCompile(`(?i)\s*[-|:–]\s*(?:official\s+site|official\s+store|free\s+shipping|best\s+price|best\s+deals?|on\s+sale(?:\s+now)?).*$`), "removed marketing trailer from title"},
	{regexp.MustCompile(`(?i)\s*\|\s*[\w .,&'’-]{1,40}$`), "removed site branding from title"},
}

var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	measurementRegex = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:inches|inch|in|cm|mm|gb|tb|mah|hz|w|oz|lb)s?\b`)
)

// categoryKeywords drives category inference: the category with the strictly
// highest hit count against the lowercased title+description wins; ties and
// zero-hit texts fall through to General. General itself carries no keywords.
var categoryKeywords = map[string][]string{
	"Electronics": {
		"phone", "smartphone", "laptop", "tablet", "headphone", "headphones",
		"earbud", "earbuds", "camera", "monitor", "keyboard", "mouse",
		"charger", "usb", "bluetooth", "wireless", "smartwatch", "gaming",
		"console", "router", "drone", "battery", "hdmi", "ssd", "processor",
	},
	"Fashion": {
		"shirt", "tshirt", "t-shirt", "jeans", "dress", "jacket", "hoodie",
		"sweater", "shoe", "shoes", "sneaker", "sneakers", "boot", "boots",
		"sandal", "hat", "cap", "sock", "socks", "scarf", "belt", "handbag",
		"sunglasses", "apparel",
	},
	"Home": {
		"lamp", "sofa", "couch", "chair", "table", "desk", "mattress",
		"pillow", "blanket", "curtain", "rug", "kitchen", "cookware", "pan",
		"pot", "mug", "vacuum", "garden", "shelf", "organizer", "candle",
		"bedding", "towel",
	},
	"Books": {
		"book", "novel", "paperback", "hardcover", "author", "edition",
		"guide", "handbook", "textbook", "cookbook", "biography", "memoir",
	},
}

// featureKeywords are short marketing attributes worth surfacing as specs,
// title-cased on output.
var featureKeywords = []string{
	"wireless", "bluetooth", "waterproof", "water-resistant", "rechargeable",
	"portable", "foldable", "adjustable", "ergonomic", "noise-cancelling",
	"lightweight", "stainless", "washable", "organic",
}

// colorKeywords yield at most one "Color: X" spec per record.
var colorKeywords = []string{
	"black", "white", "red", "blue", "green", "gray", "grey", "silver",
	"gold", "pink", "purple", "brown", "beige", "navy", "orange", "yellow",
}

// placeholderImages maps each category to the image assigned when a page
// yields none. Keyed by the same fixed category set as categoryKeywords.
var placeholderImages = map[string]string{
	"Electronics": "/static/images/placeholder_electronics.svg",
	"Fashion":     "/static/images/placeholder_fashion.svg",
	"Home":        "/static/images/placeholder_home.svg",
	"Books":       "/static/images/placeholder_books.svg",
	"General":     "/static/images/placeholder_general.svg",
}

// Cleaner normalizes scraped candidate fields into a presentable catalog
// record, reporting every adjustment it makes.
type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean applies the normalization pipeline to a scraped record. The returned
// report lists, in order, every heuristic that actually fired; it is meant
// for operator transparency and carries no machine-readable structure.
func (c *Cleaner) Clean(scraped *domain.ScrapedProduct) (*domain.CleanedProduct, []string) {
	report := []string{}

	name := cleanTitle(scraped.Title, &report)

	merchant := scraped.Merchant
	if merchant == "" && scraped.Brand != "" {
		merchant = scraped.Brand
		report = append(report, fmt.Sprintf("used brand %q as merchant", scraped.Brand))
	}

	category := inferCategory(scraped.Title + " " + scraped.Description)
	if category != "General" {
		report = append(report, fmt.Sprintf("inferred category %q from product text", category))
	}

	specs := extractSpecs(scraped.Title + " " + scraped.Description)
	if len(specs) > 0 {
		report = append(report, fmt.Sprintf("extracted %d spec(s) from product text", len(specs)))
	}

	description, synthetic := buildDescription(scraped.Description, name, category, specs, &report)

	rating := scraped.Rating
	if rating != nil && (*rating < 0 || *rating > 5) {
		clamped := *rating
		if clamped < 0 {
			clamped = 0
		} else {
			clamped = 5
		}
		rating = &clamped
		report = append(report, fmt.Sprintf("clamped rating %.1f to %.1f", *scraped.Rating, clamped))
	}

	reviewCount := scraped.ReviewCount
	if reviewCount != nil && *reviewCount < 0 {
		zero := 0
		reviewCount = &zero
		report = append(report, "negative review count floored at 0")
	}

	price := 0.0
	if scraped.Price != nil {
		price = *scraped.Price
	} else {
		report = append(report, "price missing; set to 0.00 for manual review")
	}

	imageURL := scraped.ImageURL
	if imageURL == "" {
		imageURL = PlaceholderImage(category)
		report = append(report, fmt.Sprintf("no image found; assigned %s placeholder", category))
	}

	return &domain.CleanedProduct{
		Name:                 name,
		Description:          description,
		Category:             category,
		Specs:                specs,
		Price:                price,
		Rating:               rating,
		ReviewCount:          reviewCount,
		Merchant:             merchant,
		ImageURL:             imageURL,
		SyntheticDescription: synthetic,
	}, report
}

func cleanTitle(title string, report *[]string) string {
	name := strings.TrimSpace(title)
	for _, rule := range titleRules {
		stripped := rule.pattern.ReplaceAllString(name, "")
		if stripped != name {
			name = stripped
			*report = append(*report, rule.note)
		}
	}
	name = whitespaceRegex.ReplaceAllString(name, " ")
	name = strings.Trim(name, " -|:,–")
	if name == "" {
		name = FallbackProductName
		*report = append(*report, "title empty after cleanup; using placeholder name")
	}
	return name
}

// inferCategory counts keyword hits per category over the lowercased text.
// Only a strict maximum wins; ties resolve to General.
func inferCategory(text string) string {
	words := map[string]bool{}
	for _, w := range wordRegex.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
	}
	lower := strings.ToLower(text)

	best, bestCount, tied := "General", 0, false
	for _, category := range []string{"Electronics", "Fashion", "Home", "Books"} {
		count := 0
		for _, kw := range categoryKeywords[category] {
			if strings.ContainsAny(kw, "- ") {
				if strings.Contains(lower, kw) {
					count++
				}
			} else if words[kw] {
				count++
			}
		}
		if count > bestCount {
			best, bestCount, tied = category, count, false
		} else if count == bestCount && count > 0 {
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return "General"
	}
	return best
}

// extractSpecs pulls short recognizable tokens from free text: measurements
// with units, known feature keywords, and at most one color. Order-preserving
// case-insensitive dedupe, capped at 8.
func extractSpecs(text string) []string {
	lower := strings.ToLower(text)

	specs := []string{}
	seen := map[string]bool{}
	add := func(spec string) {
		key := strings.ToLower(spec)
		if seen[key] || len(specs) >= maxSpecs {
			return
		}
		seen[key] = true
		specs = append(specs, spec)
	}

	for _, m := range measurementRegex.FindAllString(text, -1) {
		add(whitespaceRegex.ReplaceAllString(strings.TrimSpace(m), " "))
	}
	for _, kw := range featureKeywords {
		if strings.Contains(lower, kw) {
			add(titleCase(kw))
		}
	}
	for _, color := range colorKeywords {
		if wordInText(lower, color) {
			add("Color: " + titleCase(color))
			break
		}
	}
	return specs
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func wordInText(lowerText, word string) bool {
	for _, w := range wordRegex.FindAllString(lowerText, -1) {
		if w == word {
			return true
		}
	}
	return false
}

func buildDescription(description, name, category string, specs []string, report *[]string) (string, bool) {
	description = strings.TrimSpace(description)
	synthetic := false
	if description == "" {
		description = fmt.Sprintf("%s. A %s product imported from the web.", name, strings.ToLower(category))
		synthetic = true
		*report = append(*report, "description missing; synthesized from name and category")
	}

	if len(specs) > 0 && !strings.Contains(strings.ToLower(description), "key specs:") {
		shown := specs
		if len(shown) > 5 {
			shown = shown[:5]
		}
		description += "\n\nKey specs: " + strings.Join(shown, ", ") + "."
		*report = append(*report, "appended key specs summary to description")
	}
	return description, synthetic
}

// PlaceholderImage returns the stand-in image for a category, defaulting to
// the General placeholder for unknown categories.
func PlaceholderImage(category string) string {
	if url, ok := placeholderImages[category]; ok {
		return url
	}
	return placeholderImages["General"]
}

// IsPlaceholderImage reports whether url is one of the fixed category
// placeholders, so re-imports never replace a real image with one.
func IsPlaceholderImage(url string) bool {
	for _, placeholder := range placeholderImages {
		if url == placeholder {
			return true
		}
	}
	return false
}
