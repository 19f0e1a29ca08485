// Package rest exposes editor sessions over HTTP so a browser canvas can
// drive them. Every request for a session runs under that session's lock.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/logging"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
)

// Options configures the router. Flows and Metrics may be nil, in which case
// their routes are not mounted.
type Options struct {
	Sessions       *editor.Manager
	Flows          editor.FlowRepository
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	opts   Options
	logger *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(opts Options) *Router {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	return &Router{opts: opts, logger: logging.OrNop(opts.Logger)}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", rt.healthCheck)
	if rt.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.Metrics.Handler())
	}

	sessions := newSessionHandler(rt.opts.Sessions, rt.opts.Flows, rt.logger)
	router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", sessions.Create)
		r.Get("/", sessions.List)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", sessions.Close)
			r.Get("/graph", sessions.Graph)

			r.Post("/nodes", sessions.DropNode)
			r.Put("/nodes/{nodeID}/position", sessions.MoveNode)
			r.Put("/nodes/{nodeID}/text", sessions.EditText)
			r.Post("/nodes/{nodeID}/click", sessions.ClickNode)
			r.Delete("/nodes/{nodeID}", sessions.RemoveNode)

			r.Post("/edges", sessions.Connect)
			r.Delete("/edges/{edgeID}", sessions.RemoveEdge)

			r.Post("/canvas/click", sessions.ClickCanvas)
			r.Get("/selection", sessions.Selection)
			r.Delete("/selection", sessions.BackToList)

			r.Post("/save", sessions.Save)
			r.Get("/notice", sessions.Notice)
			if rt.opts.Flows != nil {
				r.Post("/load", sessions.Load)
			}
		})
	})

	if rt.opts.Flows != nil {
		flows := newFlowHandler(rt.opts.Flows, rt.logger)
		router.Route("/api/flows", func(r chi.Router) {
			r.Get("/", flows.List)
			r.Get("/{flowID}", flows.Get)
		})
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
