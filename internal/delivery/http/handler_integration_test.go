package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shophub/backend/config"
	"github.com/shophub/backend/internal/infrastructure/blob"
	"github.com/shophub/backend/internal/infrastructure/scraper"
	"github.com/shophub/backend/internal/infrastructure/store"
	"github.com/shophub/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// setupTestRouter wires a router against an in-memory catalog with the real
// scraping pipeline, so import tests exercise fetch/extract/clean end to end.
func setupTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
		Store:   config.StoreConfig{Driver: "memory"},
		Uploads: config.UploadsConfig{Dir: t.TempDir(), BaseURL: "/static/uploads"},
		Search:  config.SearchConfig{FuzzyThreshold: 0.45, SuggestThreshold: 0.5},
	}

	catalog := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), catalog); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	blobs, err := blob.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	importer := usecase.NewImportService(catalog,
		scraper.NewFetcher(), scraper.NewExtractor(), scraper.NewImageImporter(blobs))
	search := usecase.NewSearchService(catalog, usecase.SearchConfig{
		FuzzyThreshold:   cfg.Search.FuzzyThreshold,
		SuggestThreshold: cfg.Search.SuggestThreshold,
	})
	compare := usecase.NewCompareService(catalog)

	handler := NewHandler(importer, search, compare, catalog)
	return SetupRouter(cfg, handler), catalog
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	response := map[string]any{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

func TestHealthCheckEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "shophub-backend" {
		t.Errorf("service = %v, want shophub-backend", response["service"])
	}
}

func TestImportEndpoint(t *testing.T) {
	t.Run("imports a scrapable page", func(t *testing.T) {
		page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head>
				<script type="application/ld+json">
				{"@type": "Product", "name": "Quantum Soundbar",
				 "description": "Wireless bluetooth soundbar, 120 W output",
				 "offers": {"price": "149.99"},
				 "aggregateRating": {"ratingValue": 4.4, "reviewCount": 310}}
				</script>
			</head></html>`))
		}))
		defer page.Close()

		router, _ := setupTestRouter(t)
		w, response := doJSON(t, router, "POST", "/api/products/import", `{"url":"`+page.URL+`/p/1"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("Status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
		}
		if response["created"] != true {
			t.Errorf("created = %v, want true", response["created"])
		}
		product, ok := response["product"].(map[string]any)
		if !ok {
			t.Fatalf("product missing in response: %v", response)
		}
		if product["name"] != "Quantum Soundbar" {
			t.Errorf("name = %v, want Quantum Soundbar", product["name"])
		}
		if product["category"] != "Electronics" {
			t.Errorf("category = %v, want Electronics", product["category"])
		}
		if product["price"] != 149.99 {
			t.Errorf("price = %v, want 149.99", product["price"])
		}

		// Second import of the same URL updates instead of duplicating.
		w2, response2 := doJSON(t, router, "POST", "/api/products/import", `{"url":"`+page.URL+`/p/1"}`)
		if w2.Code != http.StatusOK {
			t.Errorf("re-import status = %d, want %d", w2.Code, http.StatusOK)
		}
		if response2["created"] != false {
			t.Errorf("re-import created = %v, want false", response2["created"])
		}
	})

	t.Run("rejects missing url", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		w, _ := doJSON(t, router, "POST", "/api/products/import", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		w, _ := doJSON(t, router, "POST", "/api/products/import", `{"url":"ftp://example.com"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps fetch failure to bad gateway", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()

		router, _ := setupTestRouter(t)
		w, _ := doJSON(t, router, "POST", "/api/products/import", `{"url":"`+dead.URL+`"}`)
		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}

func TestListProductsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("lists the seeded catalog", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/products", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if response["count"].(float64) == 0 {
			t.Error("count = 0, want seeded products")
		}
	})

	t.Run("filters by category", func(t *testing.T) {
		_, response := doJSON(t, router, "GET", "/api/products?category=Electronics", "")
		products := response["products"].([]any)
		for _, raw := range products {
			p := raw.(map[string]any)
			if p["category"] != "Electronics" {
				t.Errorf("product %v leaked into Electronics filter", p["name"])
			}
		}
	})

	t.Run("sorts by price ascending", func(t *testing.T) {
		_, response := doJSON(t, router, "GET", "/api/products?sort=price_asc", "")
		products := response["products"].([]any)
		last := 0.0
		for _, raw := range products {
			price := raw.(map[string]any)["price"].(float64)
			if price < last {
				t.Fatalf("prices out of order: %v before %v", last, price)
			}
			last = price
		}
	})

	t.Run("fuzzy fallback on misspelled query", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/products?q=blutooth+speeker", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if response["count"].(float64) == 0 {
			t.Error("fuzzy fallback returned nothing for a close misspelling")
		}
	})

	t.Run("rejects malformed price filter", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/products?min_price=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestGetProductEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("returns a product", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/products/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if response["id"].(float64) != 1 {
			t.Errorf("id = %v, want 1", response["id"])
		}
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/products/99999", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/products/banana", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestSuggestionsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("returns suggestions", func(t *testing.T) {
		w, response := doJSON(t, router, "GET", "/api/products/suggestions?q=head&limit=5", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		suggestions := response["suggestions"].([]any)
		if len(suggestions) > 5 {
			t.Errorf("got %d suggestions, want <= 5", len(suggestions))
		}
	})

	t.Run("missing query is 400", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/products/suggestions", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestCompareEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("compares seeded products", func(t *testing.T) {
		w, response := doJSON(t, router, "POST", "/api/products/compare", `{"ids":[1,2,3]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}
		rows := response["rows"].([]any)
		if len(rows) != 3 {
			t.Errorf("got %d rows, want 3", len(rows))
		}
		summary := response["summary"].(map[string]any)
		if summary["confidence"] != "high" {
			t.Errorf("confidence = %v, want high for 3 products", summary["confidence"])
		}
		if summary["recommended_id"].(float64) == 0 {
			t.Error("recommended_id missing")
		}
	})

	t.Run("one id is 400", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/products/compare", `{"ids":[1]}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/products/compare", `{"ids":[1,99999]}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
