// Package http serves the coverage service as a JSON API for browsers and
// scripts that cannot speak gRPC. Request and response bodies use the same
// shapes as the gRPC messages in pkg/pb.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
)

// maxBodyBytes caps request bodies; a few thousand sources fit comfortably.
const maxBodyBytes = 1 << 20

// Handler serves the JSON API
type Handler struct {
	est            *ports.Estimator
	allowedOrigins []string
}

// NewHandler creates the HTTP handler. With no origins, any origin is allowed.
func NewHandler(est *ports.Estimator, allowedOrigins []string) *Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Handler{est: est, allowedOrigins: allowedOrigins}
}

// Routes wires middlewares and endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/coverage", h.handleComputeCoverage)
		api.Get("/fixtures", h.handleListFixtures)

		api.Route("/runs", func(rr chi.Router) {
			rr.Get("/", h.handleListRuns)
			rr.Get("/latest", h.handleLatestRun)
			rr.Get("/{id}", h.handleGetRun)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("took", time.Since(started)).
			Msg("http request")
	})
}
