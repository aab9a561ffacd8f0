// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"marketplace/internal/config"
	"marketplace/internal/logger"
	"marketplace/internal/server/handlers"
	searchService "marketplace/internal/service/search"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services the HTTP layer serves
type Dependencies struct {
	Search     *searchService.Service
	Categories *searchService.CategoryCache
	Synonyms   handlers.Expander
	Places     handlers.Resolver
	DB         Pinger
	NATS       *nats.Conn
	// EventsTopic is the subject prefix of listing change events
	EventsTopic string
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies, log *zap.Logger) *Server {
	log = logger.OrNop(log)
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.Middleware(log.Named("http")))
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	searchHandler := handlers.NewSearchHandler(deps.Search, deps.Synonyms, deps.Places, log)
	listingHandler := handlers.NewListingHandler(deps.Search, deps.Categories, log)

	// Routes
	router.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		// Health check
		r.Get("/health", healthHandler(deps.DB))

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Search API
			r.Route("/search", func(r chi.Router) {
				r.Get("/manpower", searchHandler.SearchManpower)
				r.Get("/jobs", searchHandler.SearchJobs)
				r.Get("/equipment", searchHandler.SearchEquipment)
				r.Get("/all", searchHandler.SearchAll)
				r.Get("/locations", searchHandler.ExpandLocation)
				r.Get("/keywords", searchHandler.ExpandKeyword)
			})

			// Manpower API
			r.Route("/manpower", func(r chi.Router) {
				r.Get("/categories", listingHandler.GetCategories)
				r.Post("/categories/refresh", listingHandler.RefreshCategories)
				r.Get("/{id}", listingHandler.GetManpower)
				r.Get("/{id}/recommendations", listingHandler.RecommendJobs)
			})

			// Jobs API
			r.Get("/jobs/{id}", listingHandler.GetJob)

			// Equipment API
			r.Get("/equipment/locations", listingHandler.EquipmentLocations)
		})
	})

	// WebSocket endpoint for live search
	router.Get("/ws/search", handlers.LiveSearchHandler(deps.Search, deps.NATS, deps.EventsTopic, log))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	}
}
