package repositories

import (
	"context"
	"errors"
	"fmt"

	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutfitSelectionRepository stores generated (top, bottom) pairings.
type OutfitSelectionRepository struct {
	db *gormlib.DB
}

func NewOutfitSelectionRepository(db *gormlib.DB) *OutfitSelectionRepository {
	return &OutfitSelectionRepository{db: db}
}

func (r *OutfitSelectionRepository) Exists(ctx context.Context, topID, bottomID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.OutfitSelection{}).
		Where("top_item_id = ? AND bottom_item_id = ?", topID, bottomID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check selection (%d,%d): %w", topID, bottomID, err)
	}
	return count > 0, nil
}

// Create inserts a selection. A pair that already exists, including one
// inserted concurrently, returns ErrConflict.
func (r *OutfitSelectionRepository) Create(ctx context.Context, topID, bottomID uint, strength *float64) (*gorm.OutfitSelection, error) {
	row := gorm.OutfitSelection{
		TopItemID:     topID,
		BottomItemID:  bottomID,
		MatchStrength: strength,
	}

	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		if err := translate(res.Error); errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create selection (%d,%d): %w", topID, bottomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	return &row, nil
}

// Pairs returns the (top, bottom) key of every stored selection.
func (r *OutfitSelectionRepository) Pairs(ctx context.Context) ([]entities.ItemPair, error) {
	var rows []gorm.OutfitSelection
	err := r.db.WithContext(ctx).
		Select("top_item_id", "bottom_item_id").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load selection pairs: %w", err)
	}

	pairs := make([]entities.ItemPair, len(rows))
	for i, row := range rows {
		pairs[i] = entities.ItemPair{TopID: row.TopItemID, BottomID: row.BottomItemID}
	}
	return pairs, nil
}

// AllEnriched returns every selection, strongest match first and unscored
// ones last, with both items' image keys and colour names.
func (r *OutfitSelectionRepository) AllEnriched(ctx context.Context) ([]entities.EnrichedSelection, error) {
	db := r.db.WithContext(ctx)

	var rows []gorm.OutfitSelection
	err := db.Preload("TopItem").
		Preload("BottomItem").
		Order("match_strength IS NULL").
		Order("match_strength DESC").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load selections: %w", err)
	}

	seen := make(map[uint]struct{})
	var itemIDs []uint
	for _, row := range rows {
		for _, id := range []uint{row.TopItemID, row.BottomItemID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				itemIDs = append(itemIDs, id)
			}
		}
	}
	names, err := colourNamesByItem(db, itemIDs)
	if err != nil {
		return nil, err
	}

	out := make([]entities.EnrichedSelection, len(rows))
	for i, row := range rows {
		out[i] = entities.EnrichedSelection{
			ID:             row.ID,
			TopItemID:      row.TopItemID,
			BottomItemID:   row.BottomItemID,
			TopImageKey:    row.TopItem.ImageKey,
			BottomImageKey: row.BottomItem.ImageKey,
			TopColours:     names[row.TopItemID],
			BottomColours:  names[row.BottomItemID],
			MatchStrength:  row.MatchStrength,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out, nil
}
