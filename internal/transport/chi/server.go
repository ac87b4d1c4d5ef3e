package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
)

// Searcher runs fuzzy searches.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Sequence, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// SearchRequest is the body of POST /collections/{key}/search.
type SearchRequest struct {
	Needle     *string  `json:"needle"`
	MaxResults *int     `json:"max_results,omitempty"`
	MinScore   *float64 `json:"min_score,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves the fuzzy search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	defaultLimit  int
	assembleOpts  []result.AssembleOption
	errorHandlers []errorHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDefaultLimit sets max_results for requests that omit it.
func WithDefaultLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithPrecision rounds "match" in responses to n significant digits.
func WithPrecision(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.assembleOpts = append(s.assembleOpts, result.WithPrecision(n))
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger, opts ...ServerOption) *Server {
	s := &Server{
		search:        search,
		health:        health,
		logger:        logger,
		defaultLimit:  request.DefaultLimit,
		errorHandlers: domainErrorHandlers,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/collections/{key}/search", s.SearchCollection)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// SearchCollection handles POST /collections/{key}/search.
func (s *Server) SearchCollection(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid collection key")
		return
	}

	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := s.requestFromBody(key, body)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	seq, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	out, err := result.Marshal(result.Assemble(seq, s.assembleOpts...))
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) requestFromBody(key string, body SearchRequest) (request.Request, error) {
	if body.Needle == nil {
		return request.Request{}, fmt.Errorf("%w: needle is required", domain.ErrInvalidArgument)
	}
	limit := s.defaultLimit
	if body.MaxResults != nil {
		limit = *body.MaxResults
	}
	var minScore float64
	if body.MinScore != nil {
		minScore = *body.MinScore
	}

	req, err := request.New(key, *body.Needle, limit, minScore)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(ctx)))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
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
