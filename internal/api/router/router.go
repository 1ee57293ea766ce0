package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/captureclient/demo-engine/internal/http/middleware"
	"github.com/captureclient/demo-engine/internal/webchat"
	"github.com/captureclient/demo-engine/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Demo               *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimit guards the demo mutation endpoints; nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/demo", func(demo chi.Router) {
		demo.Get("/ws", cfg.Demo.HandleWebSocket)
		demo.Get("/widget.js", cfg.Demo.HandleWidgetJS)
		demo.Get("/state", cfg.Demo.HandleState)

		demo.Group(func(limited chi.Router) {
			if cfg.RateLimit != nil {
				limited.Use(cfg.RateLimit)
			}
			limited.Post("/message", cfg.Demo.HandleMessage)
			limited.Post("/reset", cfg.Demo.HandleReset)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
