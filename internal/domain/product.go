package domain

import "time"

// Product is the durable catalog record. Imported products carry the
// redirect-resolved page URL in AffiliateURL, which acts as the catalog's
// external de-duplication key.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url"`
	Stock         int       `json:"stock"`
	Category      string    `json:"category"`
	AffiliateURL  string    `json:"affiliate_url"`
	Merchant      string    `json:"merchant"`
	Rating        *float64  `json:"rating"`
	ReviewCount   *int      `json:"review_count"`
	IsDeal        bool      `json:"is_deal"`
	DealPrice     *float64  `json:"deal_price"`
	OriginalPrice *float64  `json:"original_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EffectivePrice is what a buyer would actually pay: the deal price when one
// is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DealPrice != nil && *p.DealPrice > 0 {
		return *p.DealPrice
	}
	return p.Price
}

// DiscountFraction returns (original - deal) / original when both prices are
// positive, 0 otherwise.
func (p *Product) DiscountFraction() float64 {
	if p.OriginalPrice == nil || p.DealPrice == nil {
		return 0
	}
	original, deal := *p.OriginalPrice, *p.DealPrice
	if original <= 0 || deal <= 0 || deal >= original {
		return 0
	}
	return (original - deal) / original
}

// DiscountAmount returns the absolute saving in currency units. Missing
// original or deal prices fall back to the list price so products without
// deal data compare as zero savings.
func (p *Product) DiscountAmount() float64 {
	original := p.Price
	if p.OriginalPrice != nil && *p.OriginalPrice > 0 {
		original = *p.OriginalPrice
	}
	deal := p.Price
	if p.DealPrice != nil && *p.DealPrice > 0 {
		deal = *p.DealPrice
	}
	if original <= deal {
		return 0
	}
	return original - deal
}

// SearchFilter narrows a catalog listing. Query is matched as a
// case-insensitive substring of name, description, and category; the search
// service falls back to fuzzy scoring when that yields nothing.
type SearchFilter struct {
	Category  string
	Merchant  string
	DealsOnly bool
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Query     string
	Limit     int
}

// WithoutQuery returns a copy of the filter with the text query cleared,
// used to build the fuzzy-fallback candidate set.
func (f SearchFilter) WithoutQuery() SearchFilter {
	f.Query = ""
	return f
}
