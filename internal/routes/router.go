package routes

import (
	"net/http"
	"strings"

	"palette-wardrobe/stylist/internal/api"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/middleware"
	"palette-wardrobe/stylist/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterRoutes builds the chi router over deps.
func RegisterRoutes(deps *api.Dependencies) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.InFlightMiddleware(deps.Metrics))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthCheck", handlers.HealthCheck())

	if local, ok := deps.Services.Images.(*storage.LocalImageStore); ok {
		mountMedia(r, deps.Config.MediaURL, local.Root())
	}

	limiter := middleware.NewIPRateLimiter(deps.Config.UploadRateLimit, deps.Config.UploadBurst)
	RegisterAPIRoutes(r, handlers, deps.Services.Tokens, limiter)

	return r
}

// mountMedia serves locally stored images under prefix.
func mountMedia(r chi.Router, prefix, root string) {
	if prefix == "" {
		prefix = "/media/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.Get(prefix+"*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
	logging.Info("Serving local media", "prefix", prefix, "root", root)
}
