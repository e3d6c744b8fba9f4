package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain"
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/logger"
	gen "github.com/kailas-cloud/nersearch/internal/transport/generated"
	healthuc "github.com/kailas-cloud/nersearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/nersearch/internal/usecase/search"
)

// maxBodyBytes caps request bodies; queries are short free text.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// SizeLimits bounds the number of results per request.
type SizeLimits struct {
	Default int
	Max     int
}

// Server implements generated.ServerInterface for the chi router.
type Server struct {
	gen.Unimplemented
	search        *searchuc.Service
	health        *healthuc.Service
	sizes         SizeLimits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	sizes SizeLimits,
	logger *zap.Logger,
) *Server {
	if sizes.Default <= 0 {
		sizes.Default = 1
	}
	if sizes.Max < sizes.Default {
		sizes.Max = sizes.Default
	}
	s := &Server{
		search: search,
		health: health,
		sizes:  sizes,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeIndexNotFound),
		sentinelHandler(domain.ErrPredictorUnavailable,
			http.StatusBadGateway, gen.ErrorResponseCodePredictorUnavailable),
		storeErrorHandler,
	}
	return s
}

// SearchGet handles GET /search.
// Older clients send the query as a JSON body on GET; it is read only when
// the query parameter is absent.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request, params gen.SearchGetParams) {
	if params.Query == nil && hasBody(r) {
		var req gen.SearchRequest
		if !decodeBody(w, r, &req) {
			return
		}
		size := params.Size
		if size == nil {
			size = req.Size
		}
		s.runSearch(w, r, req.Query, size)
		return
	}
	s.runSearch(w, r, deref(params.Query), params.Size)
}

// SearchPost handles POST /search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req gen.SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.runSearch(w, r, req.Query, req.Size)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, text string, sizePtr *int) {
	text, ok := requireQuery(w, text)
	if !ok {
		return
	}

	size := s.sizes.Default
	if sizePtr != nil {
		if *sizePtr < 1 || *sizePtr > s.sizes.Max {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed,
				fmt.Sprintf("size must be between 1 and %d", s.sizes.Max))
			return
		}
		size = *sizePtr
	}

	resp, err := s.search.Search(r.Context(), text, size)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := make([]gen.Product, len(resp.Products))
	for i := range resp.Products {
		results[i] = productToGen(&resp.Products[i])
	}

	writeJSON(w, http.StatusOK, gen.SearchResponse{
		Results:    results,
		Prediction: predictionToGen(&resp.Prediction),
	})
}

// PredictGet handles GET /predict.
// A JSON body is accepted as on GET /search.
func (s *Server) PredictGet(w http.ResponseWriter, r *http.Request, params gen.PredictGetParams) {
	if params.Query == nil && hasBody(r) {
		var req gen.PredictRequest
		if !decodeBody(w, r, &req) {
			return
		}
		s.runPredict(w, r, req.Query)
		return
	}
	s.runPredict(w, r, deref(params.Query))
}

// PredictPost handles POST /predict.
func (s *Server) PredictPost(w http.ResponseWriter, r *http.Request) {
	var req gen.PredictRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.runPredict(w, r, req.Query)
}

func (s *Server) runPredict(w http.ResponseWriter, r *http.Request, text string) {
	text, ok := requireQuery(w, text)
	if !ok {
		return
	}

	p, err := s.search.Predict(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionToGen(&p))
}

// Ping handles GET /ping. Always 200; the body carries the store state.
func (s *Server) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gen.PingResponse{DocumentStoreAlive: s.health.Alive(r.Context())})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

func requireQuery(w http.ResponseWriter, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, "query is required")
		return "", false
	}
	return text, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees the sentinel text only, never the wrapped chain.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// storeErrorHandler maps document store failures to 503.
func storeErrorHandler(w http.ResponseWriter, err error) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, gen.ErrorResponseCodeStoreUnavailable,
		"document store "+dbErr.Op+" failed")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func productToGen(p *domprod.Product) gen.Product {
	n := p.Normalized()
	return gen.Product{
		Title:       n.Title,
		ProductType: n.ProductType,
		Price:       n.Price,
		Colors:      n.Colors,
		Attrs:       n.Attrs,
	}
}

func predictionToGen(p *prediction.Prediction) gen.Prediction {
	out := gen.Prediction{
		Text:      p.Text,
		PriceFrom: p.PriceFrom,
		PriceTo:   p.PriceTo,
		Colors:    p.Colors,
		Attrs:     p.Attrs,
	}
	if p.IsValid() {
		product := p.Product
		out.Product = &product
	}
	if out.Colors == nil {
		out.Colors = []string{}
	}
	if out.Attrs == nil {
		out.Attrs = []string{}
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
