package generated

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /search)
	SearchGet(w http.ResponseWriter, r *http.Request, params SearchGetParams)
	// (POST /search)
	SearchPost(w http.ResponseWriter, r *http.Request)
	// (GET /predict)
	PredictGet(w http.ResponseWriter, r *http.Request, params PredictGetParams)
	// (POST /predict)
	PredictPost(w http.ResponseWriter, r *http.Request)
	// (GET /ping)
	Ping(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// Unimplemented answers 501 for every operation. Embed it to satisfy
// ServerInterface partially.
type Unimplemented struct{}

// SearchGet (GET /search)
func (Unimplemented) SearchGet(w http.ResponseWriter, _ *http.Request, _ SearchGetParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// SearchPost (POST /search)
func (Unimplemented) SearchPost(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// PredictGet (GET /predict)
func (Unimplemented) PredictGet(w http.ResponseWriter, _ *http.Request, _ PredictGetParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// PredictPost (POST /predict)
func (Unimplemented) PredictPost(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// Ping (GET /ping)
func (Unimplemented) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// HealthCheck (GET /health)
func (Unimplemented) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// Metrics (GET /metrics)
func (Unimplemented) Metrics(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts requests to typed handler parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// SearchGet operation middleware
func (siw *ServerInterfaceWrapper) SearchGet(w http.ResponseWriter, r *http.Request) {
	var params SearchGetParams

	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &params.Query); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", r.URL.Query(), &params.Size); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "size", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchGet(w, r, params)
	})
}

// SearchPost operation middleware
func (siw *ServerInterfaceWrapper) SearchPost(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.SearchPost)
}

// PredictGet operation middleware
func (siw *ServerInterfaceWrapper) PredictGet(w http.ResponseWriter, r *http.Request) {
	var params PredictGetParams

	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &params.Query); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PredictGet(w, r, params)
	})
}

// PredictPost operation middleware
func (siw *ServerInterfaceWrapper) PredictPost(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.PredictPost)
}

// Ping operation middleware
func (siw *ServerInterfaceWrapper) Ping(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Ping)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthCheck)
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Metrics)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates an http.Handler with routing matching the API contract.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates an http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/search", wrapper.SearchGet)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/search", wrapper.SearchPost)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/predict", wrapper.PredictGet)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/predict", wrapper.PredictPost)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/ping", wrapper.Ping)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})

	return r
}
