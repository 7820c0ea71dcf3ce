package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shophub/backend/internal/domain"
	"github.com/shophub/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	importer *usecase.ImportService
	search   *usecase.SearchService
	compare  *usecase.CompareService
	store    domain.ProductStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	importer *usecase.ImportService,
	search *usecase.SearchService,
	compare *usecase.CompareService,
	store domain.ProductStore,
) *Handler {
	return &Handler{
		importer: importer,
		search:   search,
		compare:  compare,
		store:    store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shophub-backend",
		"version": "1.0.0",
	})
}

type importRequest struct {
	URL string `json:"url" binding:"required"`
}

// ImportProduct scrapes a product URL and upserts it into the catalog
func (h *Handler) ImportProduct(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := h.importer.ImportFromURL(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"created":         result.Created,
		"product":         result.Product,
		"cleaner_report":  result.CleanerReport,
		"extracted_specs": result.ExtractedSpecs,
	})
}

// ListProducts serves filtered, sorted catalog listings
func (h *Handler) ListProducts(c *gin.Context) {
	filter := domain.SearchFilter{
		Category:  c.Query("category"),
		Merchant:  c.Query("merchant"),
		DealsOnly: c.Query("deals") == "true",
		Query:     c.Query("q"),
	}

	var parseErr error
	filter.MinPrice = queryFloat(c, "min_price", &parseErr)
	filter.MaxPrice = queryFloat(c, "max_price", &parseErr)
	filter.MinRating = queryFloat(c, "min_rating", &parseErr)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = n
	}

	strategy := usecase.ParseSortStrategy(c.Query("sort"))
	products, err := h.search.Search(c.Request.Context(), filter, strategy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct serves a single catalog entry by id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	product, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Suggestions serves type-ahead search suggestions
func (h *Handler) Suggestions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	suggestions, err := h.search.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type compareRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// CompareProducts builds a side-by-side comparison with a recommendation
func (h *Handler) CompareProducts(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	result, err := h.compare.Compare(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryFloat(c *gin.Context, name string, parseErr *error) *float64 {
	raw := c.Query(name)
	if raw == "" || *parseErr != nil {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*parseErr = errors.New(name + " must be a number")
		return nil
	}
	return &v
}

// respondError maps domain sentinel errors onto HTTP statuses. Store
// failures deliberately hide their internal detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
