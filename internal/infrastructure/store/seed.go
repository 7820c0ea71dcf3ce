package store

import (
	"context"
	"fmt"

	"github.com/shophub/backend/internal/domain"
)

// SampleProducts returns the development sample catalog. Used by the server's
// optional seeding step and by tests that need a populated store.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			Name:          "Wireless Headphones",
			Description:   "Premium noise-cancelling wireless headphones with 30-hour battery life. Perfect for music lovers and professionals.",
			Price:         199.99,
			ImageURL:      "/static/images/wireless_headphones.svg",
			Stock:         50,
			Category:      "Electronics",
			Merchant:      "Amazon",
			Rating:        floatPtr(4.6),
			ReviewCount:   intPtr(1842),
			IsDeal:        true,
			DealPrice:     floatPtr(179.99),
			OriginalPrice: floatPtr(199.99),
		},
		{
			Name:        "Premium Smartwatch",
			Description: "Advanced fitness tracking smartwatch with heart rate monitor, GPS, and 7-day battery life.",
			Price:       299.99,
			ImageURL:    "/static/images/smartwatch.svg",
			Stock:       35,
			Category:    "Electronics",
			Merchant:    "Amazon",
			Rating:      floatPtr(4.4),
			ReviewCount: intPtr(935),
		},
		{
			Name:        "Wireless Speaker",
			Description: "Portable Bluetooth speaker with 360-degree sound and waterproof design. Great for outdoor adventures.",
			Price:       79.99,
			ImageURL:    "/static/images/wireless_speaker.svg",
			Stock:       100,
			Category:    "Electronics",
			Merchant:    "Amazon",
			Rating:      floatPtr(4.5),
			ReviewCount: intPtr(1260),
		},
		{
			Name:          "USB-C Cable (2-Pack)",
			Description:   "High-quality durable USB-C charging and data transfer cables. Compatible with most devices.",
			Price:         19.99,
			ImageURL:      "/static/images/usb_c_cable.svg",
			Stock:         200,
			Category:      "Electronics",
			Merchant:      "Amazon",
			Rating:        floatPtr(4.3),
			ReviewCount:   intPtr(860),
			IsDeal:        true,
			DealPrice:     floatPtr(14.99),
			OriginalPrice: floatPtr(19.99),
		},
		{
			Name:        "Classic T-Shirt",
			Description: "Comfortable cotton t-shirt available in multiple colors. Perfect for casual wear.",
			Price:       24.99,
			ImageURL:    "/static/images/tshirt.svg",
			Stock:       150,
			Category:    "Fashion",
			Merchant:    "ShareASale",
			Rating:      floatPtr(4.2),
			ReviewCount: intPtr(412),
		},
		{
			Name:          "Running Shoes",
			Description:   "Lightweight and comfortable running shoes designed for performance and durability.",
			Price:         89.99,
			ImageURL:      "/static/images/running_shoes.svg",
			Stock:         60,
			Category:      "Fashion",
			Merchant:      "Amazon",
			Rating:        floatPtr(4.5),
			ReviewCount:   intPtr(1421),
			IsDeal:        true,
			DealPrice:     floatPtr(74.99),
			OriginalPrice: floatPtr(89.99),
		},
		{
			Name:        "LED Desk Lamp",
			Description: "Adjustable LED desk lamp with touch control and multiple brightness levels. Energy-efficient.",
			Price:       34.99,
			ImageURL:    "/static/images/led_desk_lamp.svg",
			Stock:       70,
			Category:    "Home",
			Merchant:    "Amazon",
			Rating:      floatPtr(4.4),
			ReviewCount: intPtr(904),
		},
		{
			Name:        "Python Programming Guide",
			Description: "Comprehensive guide to Python programming for beginners and intermediate users.",
			Price:       29.99,
			ImageURL:    "/static/images/python_programming_guide.svg",
			Stock:       55,
			Category:    "Books",
			Merchant:    "Amazon",
			Rating:      floatPtr(4.7),
			ReviewCount: intPtr(511),
		},
	}
}

// Seed inserts the sample catalog into an empty store. Existing rows are left
// untouched: seeding is skipped when the store already has products.
func Seed(ctx context.Context, s domain.ProductStore) (int, error) {
	existing, err := s.List(ctx, domain.SearchFilter{})
	if err != nil {
		return 0, fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	count := 0
	for _, p := range SampleProducts() {
		product := p
		if _, err := s.Create(ctx, &product); err != nil {
			return count, fmt.Errorf("seed: create %q: %w", p.Name, err)
		}
		count++
	}
	return count, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
