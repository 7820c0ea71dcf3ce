package domain

// ScrapedProduct holds the raw candidate fields pulled from a product page.
// It lives for a single import call and is never persisted.
type ScrapedProduct struct {
	SourceURL   string
	Title       string
	Description string
	ImageURL    string
	Price       *float64
	Rating      *float64
	ReviewCount *int
	Brand       string
	Merchant    string
}

// CleanedProduct is a ScrapedProduct after heuristic normalization: category
// assigned, boilerplate stripped, numeric ranges clamped, fallbacks applied.
// Price and Category are always set; Specs carries at most 8 entries with no
// case-insensitive duplicates.
type CleanedProduct struct {
	Name        string
	Description string
	Category    string
	Specs       []string
	Price       float64
	Rating      *float64
	ReviewCount *int
	Merchant    string
	ImageURL    string

	// SyntheticDescription marks a description the cleaner invented because
	// the page had none; upserts treat it as unknown rather than usable.
	SyntheticDescription bool
}
