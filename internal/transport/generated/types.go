// Package generated holds the HTTP contract of api/openapi.yaml: wire types,
// the server interface and the chi router binding.
package generated

// ErrorResponseCode enumerates API error codes.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest           ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed     ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized         ErrorResponseCode = "unauthorized"
	ErrorResponseCodeIndexNotFound        ErrorResponseCode = "index_not_found"
	ErrorResponseCodePredictorUnavailable ErrorResponseCode = "predictor_unavailable"
	ErrorResponseCodeStoreUnavailable     ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeNotImplemented       ErrorResponseCode = "not_implemented"
	ErrorResponseCodeInternalError        ErrorResponseCode = "internal_error"
)

// HealthResponseStatus is the aggregated health status.
type HealthResponseStatus string

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusOk       HealthResponseStatus = "ok"
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
	HealthResponseStatusError    HealthResponseStatus = "error"
)

// HealthResponseChecks is a single component check outcome.
type HealthResponseChecks string

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchRequest defines model for SearchRequest.
type SearchRequest struct {
	Query string `json:"query"`
	Size  *int   `json:"size,omitempty"`
}

// PredictRequest defines model for PredictRequest.
type PredictRequest struct {
	Query string `json:"query"`
}

// Product defines model for Product.
type Product struct {
	Title       string   `json:"title"`
	ProductType string   `json:"product_type"`
	Price       float64  `json:"price"`
	Colors      []string `json:"colors"`
	Attrs       []string `json:"attrs"`
}

// Prediction defines model for Prediction.
type Prediction struct {
	Text      string   `json:"text"`
	Product   *string  `json:"product,omitempty"`
	PriceFrom *float64 `json:"price_from,omitempty"`
	PriceTo   *float64 `json:"price_to,omitempty"`
	Colors    []string `json:"colors"`
	Attrs     []string `json:"attrs"`
}

// SearchResponse defines model for SearchResponse.
type SearchResponse struct {
	Results    []Product  `json:"results"`
	Prediction Prediction `json:"prediction"`
}

// PingResponse defines model for PingResponse.
type PingResponse struct {
	DocumentStoreAlive bool `json:"document_store_alive"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}

// SearchGetParams defines parameters for SearchGet.
type SearchGetParams struct {
	Query *string `form:"query,omitempty" json:"query,omitempty"`
	Size  *int    `form:"size,omitempty" json:"size,omitempty"`
}

// PredictGetParams defines parameters for PredictGet.
type PredictGetParams struct {
	Query *string `form:"query,omitempty" json:"query,omitempty"`
}
