package nersearch

import "github.com/kailas-cloud/nersearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrAlreadyExists        = domain.ErrAlreadyExists
	ErrInvalidSchema        = domain.ErrInvalidSchema
	ErrInvalidProduct       = domain.ErrInvalidProduct
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrPredictorUnavailable = domain.ErrPredictorUnavailable
)
