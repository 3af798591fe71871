package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	screening interfaces.Screening
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, screening interfaces.Screening) (*Server, error) {
	if screening == nil {
		return nil, goerr.New("screening use case is required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		screening: screening,
	}

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/quiz/questions", handleQuizQuestions)
		r.Get("/model", s.handleModel)

		r.Route("/screening", func(r chi.Router) {
			r.Use(LimitBody)
			r.Post("/demographic", s.handleDemographic)
			r.Post("/quiz", s.handleQuiz)
		})
	})

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return s, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ocdcare",
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.screening.ModelSummary())
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError logs err and writes a JSON error response. The status code
// follows the error tag.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)

	status := apperr.HTTPStatus(err)
	message := "internal server error"
	if status < http.StatusInternalServerError {
		message = err.Error()
		if goErr := goerr.Unwrap(err); goErr != nil {
			message = goErr.Error()
		}
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}
