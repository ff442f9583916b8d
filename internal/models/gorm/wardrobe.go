package gorm

import (
	"time"

	"palette-wardrobe/stylist/internal/models/entities"
)

// ClothingItem is one uploaded garment photo.
type ClothingItem struct {
	ID        uint              `gorm:"column:id;primaryKey;autoIncrement"`
	Category  entities.Category `gorm:"column:category;type:varchar(10);not null;index"`
	ImageKey  string            `gorm:"column:image_key;type:varchar(255);not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`

	Colours []ItemColour `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (ClothingItem) TableName() string {
	return "clothing_items"
}

// Colour is a curated palette entry. Seeded, never edited by the service.
type Colour struct {
	ID            uint                   `gorm:"column:id;primaryKey"`
	Name          string                 `gorm:"column:name;type:varchar(100);not null"`
	R             uint8                  `gorm:"column:r;not null"`
	G             uint8                  `gorm:"column:g;not null"`
	B             uint8                  `gorm:"column:b;not null"`
	Applicability entities.Applicability `gorm:"column:applicability;type:varchar(10);not null"`
}

func (Colour) TableName() string {
	return "colours"
}

func (c Colour) RGB() entities.RGB {
	return entities.RGB{R: c.R, G: c.G, B: c.B}
}

// ItemColour associates an item with a palette colour it matched.
type ItemColour struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID          uint      `gorm:"column:item_id;not null;uniqueIndex:idx_item_colour"`
	ColourID        uint      `gorm:"column:colour_id;not null;uniqueIndex:idx_item_colour"`
	ConfidenceScore *float64  `gorm:"column:confidence_score"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`

	Colour Colour `gorm:"foreignKey:ColourID;constraint:OnDelete:CASCADE"`
}

func (ItemColour) TableName() string {
	return "item_colours"
}

// CompatiblePair says a top colour goes with a bottom colour.
type CompatiblePair struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TopColourID    uint      `gorm:"column:top_colour_id;not null;index"`
	BottomColourID uint      `gorm:"column:bottom_colour_id;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`

	TopColour    Colour `gorm:"foreignKey:TopColourID;constraint:OnDelete:CASCADE"`
	BottomColour Colour `gorm:"foreignKey:BottomColourID;constraint:OnDelete:CASCADE"`
}

func (CompatiblePair) TableName() string {
	return "compatible_pairs"
}

// OutfitSelection is a generated (top, bottom) pairing.
type OutfitSelection struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TopItemID     uint      `gorm:"column:top_item_id;not null;uniqueIndex:idx_outfit_pair"`
	BottomItemID  uint      `gorm:"column:bottom_item_id;not null;uniqueIndex:idx_outfit_pair"`
	MatchStrength *float64  `gorm:"column:match_strength"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`

	TopItem    ClothingItem `gorm:"foreignKey:TopItemID;constraint:OnDelete:CASCADE"`
	BottomItem ClothingItem `gorm:"foreignKey:BottomItemID;constraint:OnDelete:CASCADE"`
}

func (OutfitSelection) TableName() string {
	return "outfit_selections"
}

// AllModels lists every table for AutoMigrate, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&Colour{},
		&ClothingItem{},
		&ItemColour{},
		&CompatiblePair{},
		&OutfitSelection{},
	}
}
