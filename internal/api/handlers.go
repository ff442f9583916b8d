package api

import (
	"context"
	"net/http"

	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/services"
)

// WardrobeAPI is the item side of the service as handlers use it.
type WardrobeAPI interface {
	Upload(ctx context.Context, in services.UploadInput) (*services.UploadResult, error)
	List(ctx context.Context, itemType string) ([]services.ItemView, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context, itemType string) (int, error)
	ImageURL(ctx context.Context, key string) string
}

// SelectionGenerator runs the outfit generator and returns every selection.
type SelectionGenerator interface {
	GenerateAndList(ctx context.Context) (*services.GenerationReport, []entities.EnrichedSelection, error)
}

type PaletteInvalidator interface {
	Invalidate()
}

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

func (h *Handlers) Upload() http.HandlerFunc {
	return UploadHandler(h.deps.Services.Wardrobe, h.deps.Config.MaxUploadBytes)
}

func (h *Handlers) ListItems() http.HandlerFunc {
	return ListItemsHandler(h.deps.Services.Wardrobe)
}

func (h *Handlers) DeleteItem() http.HandlerFunc {
	return DeleteItemHandler(h.deps.Services.Wardrobe)
}

func (h *Handlers) DeleteAll() http.HandlerFunc {
	return DeleteAllHandler(h.deps.Services.Wardrobe)
}

func (h *Handlers) FinalSelections() http.HandlerFunc {
	return FinalSelectionsHandler(h.deps.Services.Pairing, h.deps.Services.Wardrobe)
}

func (h *Handlers) InvalidatePalette() http.HandlerFunc {
	return InvalidatePaletteHandler(h.deps.Services.Palette)
}

func (h *Handlers) HealthCheck() http.HandlerFunc {
	return HealthCheckHandler(h.deps.DB, h.deps.Services.Cache, h.deps.Services.Palette, h.deps.UpSince)
}
