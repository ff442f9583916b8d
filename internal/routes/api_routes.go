package routes

import (
	"palette-wardrobe/stylist/internal/api"
	"palette-wardrobe/stylist/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the wardrobe API under /api.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, tokens middleware.TokenVerifier, limiter *middleware.IPRateLimiter) {
	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.With(limiter.Middleware).Post("/upload/", handlers.Upload())

		apiRouter.Get("/wardrobe-items/", handlers.ListItems())
		apiRouter.Delete("/wardrobe-items/{id}", handlers.DeleteItem())

		apiRouter.Get("/final-selections/", handlers.FinalSelections())

		// Admin-only group
		apiRouter.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminAuthMiddleware(tokens))
			admin.Use(middleware.IsAdminMiddleware())

			admin.Delete("/delete-all/{item_type}/", handlers.DeleteAll())
			admin.Post("/admin/palette/invalidate", handlers.InvalidatePalette())
		})
	})
}
