package repositories

import (
	"context"
	"fmt"

	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemColourRepository stores item to palette colour associations.
type ItemColourRepository struct {
	db *gormlib.DB
}

func NewItemColourRepository(db *gormlib.DB) *ItemColourRepository {
	return &ItemColourRepository{db: db}
}

// Create inserts one association. A duplicate (item, colour) pair returns
// ErrConflict and leaves the existing row untouched.
func (r *ItemColourRepository) Create(ctx context.Context, itemID, colourID uint, confidence *float64) error {
	row := gorm.ItemColour{
		ItemID:          itemID,
		ColourID:        colourID,
		ConfidenceScore: confidence,
	}

	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("failed to create item colour (%d,%d): %w", itemID, colourID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

type associationRow struct {
	ItemID     uint     `gorm:"column:item_id"`
	ColourID   uint     `gorm:"column:colour_id"`
	Confidence *float64 `gorm:"column:confidence"`
}

// ListDistinctByCategory returns one association per (item, colour) for items
// of the given category, ordered by item then colour.
func (r *ItemColourRepository) ListDistinctByCategory(ctx context.Context, category entities.Category) ([]entities.Association, error) {
	var rows []associationRow

	err := r.db.WithContext(ctx).
		Table("item_colours").
		Select("item_colours.item_id, item_colours.colour_id, MAX(item_colours.confidence_score) AS confidence").
		Joins("JOIN clothing_items ON clothing_items.id = item_colours.item_id").
		Where("clothing_items.category = ?", category).
		Group("item_colours.item_id, item_colours.colour_id").
		Order("item_colours.item_id, item_colours.colour_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s item colours: %w", category, err)
	}

	out := make([]entities.Association, len(rows))
	for i, row := range rows {
		out[i] = entities.Association{
			ItemID:     row.ItemID,
			Category:   category,
			ColourID:   row.ColourID,
			Confidence: row.Confidence,
		}
	}
	return out, nil
}

// ColourNamesByItem maps each item id to its associated colour names,
// most confident first.
func (r *ItemColourRepository) ColourNamesByItem(ctx context.Context, itemIDs []uint) (map[uint][]string, error) {
	return colourNamesByItem(r.db.WithContext(ctx), itemIDs)
}

func colourNamesByItem(db *gormlib.DB, itemIDs []uint) (map[uint][]string, error) {
	names := make(map[uint][]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		ItemID uint   `gorm:"column:item_id"`
		Name   string `gorm:"column:name"`
	}
	err := db.Table("item_colours").
		Select("item_colours.item_id, colours.name").
		Joins("JOIN colours ON colours.id = item_colours.colour_id").
		Where("item_colours.item_id IN ?", itemIDs).
		Order("item_colours.item_id, item_colours.confidence_score DESC, colours.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load colour names: %w", err)
	}

	for _, row := range rows {
		names[row.ItemID] = append(names[row.ItemID], row.Name)
	}
	return names, nil
}
