package repositories

import (
	"context"
	"fmt"

	"palette-wardrobe/stylist/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ColourRepository reads and seeds the colour palette.
type ColourRepository struct {
	db *gormlib.DB
}

func NewColourRepository(db *gormlib.DB) *ColourRepository {
	return &ColourRepository{db: db}
}

// All returns the palette in id order, which is the matcher's tie-break order.
func (r *ColourRepository) All(ctx context.Context) ([]gorm.Colour, error) {
	var colours []gorm.Colour
	if err := r.db.WithContext(ctx).Order("id").Find(&colours).Error; err != nil {
		return nil, fmt.Errorf("failed to load colours: %w", err)
	}
	return colours, nil
}

// UpsertBatch inserts colours, overwriting rows that share an id.
func (r *ColourRepository) UpsertBatch(ctx context.Context, colours []gorm.Colour) error {
	if len(colours) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "r", "g", "b", "applicability"}),
		}).
		CreateInBatches(colours, 100).Error
	if err != nil {
		return fmt.Errorf("failed to upsert colours: %w", err)
	}
	return nil
}

func (r *ColourRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Colour{}).Count(&count).Error
	return count, err
}
