package services

import (
	"context"
	"io"

	"palette-wardrobe/stylist/internal/colour"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"
)

// ClothingItemStore persists uploaded items. Delete and DeleteByCategory
// also remove each item's colour associations and outfit selections.
type ClothingItemStore interface {
	List(ctx context.Context, category *entities.Category) ([]gorm.ClothingItem, error)
	Get(ctx context.Context, id uint) (*gorm.ClothingItem, error)
	Create(ctx context.Context, item *gorm.ClothingItem) error
	Delete(ctx context.Context, id uint) (*gorm.ClothingItem, error)
	DeleteByCategory(ctx context.Context, category entities.Category) ([]gorm.ClothingItem, error)
}

type ColourStore interface {
	All(ctx context.Context) ([]gorm.Colour, error)
}

type CompatiblePairStore interface {
	All(ctx context.Context) ([]entities.ColourPair, error)
}

type ItemColourStore interface {
	Create(ctx context.Context, itemID, colourID uint, confidence *float64) error
	ListDistinctByCategory(ctx context.Context, category entities.Category) ([]entities.Association, error)
}

type OutfitSelectionStore interface {
	Exists(ctx context.Context, topID, bottomID uint) (bool, error)
	Create(ctx context.Context, topID, bottomID uint, strength *float64) (*gorm.OutfitSelection, error)
	Pairs(ctx context.Context) ([]entities.ItemPair, error)
	AllEnriched(ctx context.Context) ([]entities.EnrichedSelection, error)
}

type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// PaletteProvider hands out the current palette snapshot.
type PaletteProvider interface {
	Palette(ctx context.Context) (*colour.Palette, error)
}
