// Package chi exposes the hotel search HTTP API on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	healthuc "github.com/kailas-cloud/hotelsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hotelsearch/internal/usecase/search"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// retryAfterSeconds is sent with transient engine failures.
const retryAfterSeconds = "1"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the hotel search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	limits        criteria.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. limits bound the accepted page size.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	limits criteria.Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		health: health,
		limits: limits,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidGeoPoint, http.StatusBadRequest, ErrorCodeValidationFailed),
		retryableHandler(domain.ErrEngineTimeout, http.StatusGatewayTimeout, ErrorCodeEngineTimeout),
		retryableHandler(domain.ErrEngineUnavailable, http.StatusServiceUnavailable, ErrorCodeEngineUnavailable),
		sentinelHandler(domain.ErrQueryRejected, http.StatusBadGateway, ErrorCodeQueryRejected),
		sentinelHandler(domain.ErrMalformedHit, http.StatusBadGateway, ErrorCodeMalformedHit),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, ErrorCodeMalformedResponse),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/hotel/list", s.ListHotels)
	r.Post("/hotel/filters", s.HotelFilters)
	r.Get("/hotel/suggestion", s.Suggestions)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListHotels handles POST /hotel/list.
func (s *Server) ListHotels(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCriteria(w, r)
	if !ok {
		return
	}

	page, err := s.search.Search(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// HotelFilters handles POST /hotel/filters.
func (s *Server) HotelFilters(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCriteria(w, r)
	if !ok {
		return
	}

	facets, err := s.search.Facets(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, facetsToResponse(facets))
}

// Suggestions handles GET /hotel/suggestion?key=.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	var key string
	if err := runtime.BindQueryParameter("form", true, false, "key", r.URL.Query(), &key); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter key")
		return
	}

	suggestions, err := s.search.Suggest(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeCriteria reads RequestParams from the body. An empty body means no criteria.
func (s *Server) decodeCriteria(w http.ResponseWriter, r *http.Request) (criteria.Criteria, bool) {
	var req RequestParams
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return criteria.Criteria{}, false
	}

	c, err := req.toCriteria(s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return criteria.Criteria{}, false
	}
	return c, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCriteria,
		domain.ErrInvalidGeoPoint,
		domain.ErrEngineTimeout,
		domain.ErrEngineUnavailable,
		domain.ErrQueryRejected,
		domain.ErrMalformedHit,
		domain.ErrMalformedResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// retryableHandler is sentinelHandler plus a Retry-After header.
func retryableHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
