package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/MTG-Drawer/internal/api/websocket"
	"github.com/ramonehamilton/MTG-Drawer/internal/charts"
	"github.com/ramonehamilton/MTG-Drawer/internal/gui"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	logger     *slog.Logger

	// Browser auto-open configuration
	openBrowser bool
	frontendURL string

	allowedOrigins []string
	chart          charts.ChartConfig

	// WebSocket hub for real-time events
	wsHub *websocket.Hub

	drawFacade *gui.DrawFacade
	services   *gui.Services
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string // CORS and websocket origins; empty allows localhost
	OpenBrowser    bool     // Whether to auto-open browser on startup
	FrontendURL    string   // URL to open in browser, usually ChartURL(Port)
	Chart          charts.ChartConfig
	Logger         *slog.Logger
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		OpenBrowser: false,
		FrontendURL: "",
		Chart:       charts.DefaultChartConfig(),
	}
}

// browserOpener opens FrontendURL when OpenBrowser is set.
var browserOpener = charts.OpenURL

// ChartURL returns the stats chart page URL of a server on port.
func ChartURL(port int) string {
	return fmt.Sprintf("http://localhost:%d/api/v1/stats/chart", port)
}

var defaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"}

// Facades holds the facade instances needed by the API server.
type Facades struct {
	Draw *gui.DrawFacade
}

// NewServer creates a new API server with the given facades.
func NewServer(cfg *Config, services *gui.Services, facades *Facades) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if services == nil {
		services = &gui.Services{}
	}
	if facades == nil {
		facades = &Facades{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chart := cfg.Chart
	if chart.Width == "" {
		chart = charts.DefaultChartConfig()
	}

	s := &Server{
		router:         chi.NewRouter(),
		port:           cfg.Port,
		logger:         logger,
		openBrowser:    cfg.OpenBrowser,
		frontendURL:    cfg.FrontendURL,
		allowedOrigins: cfg.AllowedOrigins,
		chart:          chart,
		services:       services,
		drawFacade:     facades.Draw,
	}

	s.wsHub = websocket.NewHub(websocket.HubOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Greeting:       s.greeting,
		Logger:         logger,
	})

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// greeting sends the current session state to newly connected clients.
func (s *Server) greeting() *websocket.Event {
	if s.drawFacade == nil {
		return nil
	}
	return &websocket.Event{Type: "session:state", Data: s.drawFacade.State()}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			// Skip if there's no content
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" || (contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;")) {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	// Start WebSocket hub
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "port", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server error", "error", err)
		}
	}()

	// Open browser after short delay to ensure server is ready
	if s.openBrowser && s.frontendURL != "" {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := browserOpener(s.frontendURL); err != nil {
				s.logger.Warn("failed to open browser", "error", err)
			} else {
				s.logger.Info("opened browser", "url", s.frontendURL)
			}
		}()
	}

	return nil
}

// Shutdown gracefully shuts down the API server and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates a new WebSocket observer that can be registered
// with an EventDispatcher to forward events to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.WebSocketObserver {
	return websocket.NewWebSocketObserver(s.wsHub)
}
