package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidURL is returned when an import URL is missing an http(s) scheme
	ErrInvalidURL = errors.New("URL must start with http:// or https://")

	// ErrFetchFailed is returned when the source page cannot be fetched
	ErrFetchFailed = errors.New("failed to fetch source page")

	// ErrProductNotFound is returned when a product id does not exist in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreFailure is returned when the catalog store rejects an operation
	ErrStoreFailure = errors.New("catalog store operation failed")
)
