package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"smartchunk/internal/handlers"
	"smartchunk/internal/service"
	"smartchunk/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChunkService service.ChunkService
	// IndexService is nil when no documents directory is configured; the
	// index and search routes are then not registered.
	IndexService service.IndexService
	DB           handlers.Pinger         // optional, for health checks
	VectorStore  vectorstore.VectorStore // optional, for health checks
	Collection   string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chunk", handlers.NewChunkHandler(deps.ChunkService))
		r.Method(http.MethodPost, "/compare", handlers.NewCompareHandler(deps.ChunkService))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.Collection))

		if deps.IndexService != nil {
			r.Method(http.MethodPost, "/index", handlers.NewIndexHandler(deps.IndexService))
			r.Method(http.MethodGet, "/index/stats", handlers.NewIndexStatsHandler(deps.IndexService))
			r.Method(http.MethodGet, "/search", handlers.NewSearchHandler(deps.IndexService))
		}
	})

	return r
}
