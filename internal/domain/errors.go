package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource (index, document).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidProduct signals a product record that fails validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidQuery signals an empty or malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrPredictorUnavailable signals an entity extraction backend failure.
	ErrPredictorUnavailable = errors.New("predictor unavailable")
	// ErrInvalidSchema signals an invalid index mapping.
	ErrInvalidSchema = errors.New("invalid schema")
)

// ProductError wraps ErrInvalidProduct with the position of the offending record.
type ProductError struct {
	Index  int
	Reason string
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%s: record %d: %s", ErrInvalidProduct.Error(), e.Index, e.Reason)
}

func (e *ProductError) Unwrap() error { return ErrInvalidProduct }

// NewProductError creates a product validation error for record i.
func NewProductError(i int, reason string) error {
	return &ProductError{Index: i, Reason: reason}
}
