// Package server exposes the dashboard HTTP API: lead analysis, header
// metrics, projects, and the streaming concierge agent.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/concierge"
	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/monitoring"
	"github.com/sells-group/lead-intel/internal/project"
	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

// Server wires the application services behind the HTTP API.
type Server struct {
	analysis  *analysis.Service
	manager   *concierge.Manager
	projects  *project.Store
	collector *monitoring.Collector
	authToken string
	cors      []string
}

// New creates the API server. authToken guards every /api route; an empty
// token rejects all requests rather than opening the API.
func New(svc *analysis.Service, manager *concierge.Manager, projects *project.Store, collector *monitoring.Collector, authToken string, corsOrigins []string) *Server {
	return &Server{
		analysis:  svc,
		manager:   manager,
		projects:  projects,
		collector: collector,
		authToken: authToken,
		cors:      corsOrigins,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cors,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth(headerToken))
		r.Post("/api/leads/analyze", s.handleAnalyze)
		r.Get("/api/leads/analyze", s.handleLastAnalysis)
		r.Get("/api/metrics/top-company", s.handleTopCompany)
		r.Post("/api/projects", s.handleCreateProject)
		r.Get("/api/projects", s.handleListProjects)
		r.Post("/api/agents/concierge", s.handleStartRun)
		r.Post("/api/agents/concierge/{runID}/actions", s.handleExecuteAction)
	})

	// EventSource cannot set headers, so the stream route also accepts the
	// token as a query parameter.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth(headerOrQueryToken))
		r.Get("/api/agents/concierge/stream/{runID}", s.handleStream)
	})

	return r
}

// tokenFunc extracts the presented credential from a request.
type tokenFunc func(r *http.Request) string

func headerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}

func headerOrQueryToken(r *http.Request) string {
	if tok := headerToken(r); tok != "" {
		return tok
	}
	return r.URL.Query().Get("token")
}

func (s *Server) requireAuth(extract tokenFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := extract(r)
			if s.authToken == "" || presented == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(s.authToken)) != 1 {
				writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

// writeError emits the {"error", "details"} body the dashboard expects.
// details carries the root cause when the error chain has one.
func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}
	if cause := eris.Cause(err); cause != nil && cause.Error() != err.Error() {
		body["details"] = cause.Error()
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	var missing *config.MissingError
	if errors.As(err, &missing) {
		return http.StatusInternalServerError
	}
	var apiErr *leadfeeder.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, concierge.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, concierge.ErrRunNotCompleted):
		return http.StatusConflict
	case errors.Is(err, concierge.ErrEmptyPrompt), errors.Is(err, project.ErrNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody parses a JSON request body into dst. An empty body is allowed
// when dst has usable zero values.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
