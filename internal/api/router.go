package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/MTG-Drawer/internal/api/handlers"
	"github.com/ramonehamilton/MTG-Drawer/internal/api/response"
	"github.com/ramonehamilton/MTG-Drawer/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		if s.drawFacade != nil {
			drawHandler := handlers.NewDrawHandler(s.drawFacade, s.chart)

			r.Route("/deck", func(r chi.Router) {
				r.Get("/", drawHandler.GetDeck)
				r.Post("/", drawHandler.SubmitDeck)
				r.Delete("/", drawHandler.ClearDeck)
			})

			r.Post("/draws", drawHandler.DrawHands)

			r.Route("/hands", func(r chi.Router) {
				r.Get("/", drawHandler.GetHands)
				r.Get("/current", drawHandler.GetCurrentHand)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/", drawHandler.GetStats)
				r.Get("/chart", drawHandler.GetStatsChart)
			})
		}

		sources := handlers.SystemSources{
			LookupMetrics: s.services.LookupMetrics,
			DrawMetrics:   s.services.DrawMetrics,
		}
		if s.services.Lookup != nil {
			sources.CacheLen = s.services.Lookup.Cache().Len
		}
		if s.services.Storage != nil {
			sources.Store = s.services.Storage
		}
		systemHandler := handlers.NewSystemHandler(sources)
		r.Route("/system", func(r chi.Router) {
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
			r.Get("/cache", systemHandler.GetCacheStatus)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": version.Name,
		"clients": s.wsHub.ClientCount(),
	})
}
