package repositories

import (
	"context"
	"errors"
	"fmt"

	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ClothingItemRepository handles clothing_items and the rows that hang off them.
type ClothingItemRepository struct {
	db *gormlib.DB
}

func NewClothingItemRepository(db *gormlib.DB) *ClothingItemRepository {
	return &ClothingItemRepository{db: db}
}

// List returns items newest first, optionally restricted to one category.
func (r *ClothingItemRepository) List(ctx context.Context, category *entities.Category) ([]gorm.ClothingItem, error) {
	var items []gorm.ClothingItem

	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list clothing items: %w", err)
	}
	return items, nil
}

func (r *ClothingItemRepository) Get(ctx context.Context, id uint) (*gorm.ClothingItem, error) {
	var item gorm.ClothingItem

	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gormlib.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clothing item %d: %w", id, err)
	}
	return &item, nil
}

func (r *ClothingItemRepository) Create(ctx context.Context, item *gorm.ClothingItem) error {
	if err := r.db.WithContext(ctx).Omit("Colours").Create(item).Error; err != nil {
		return fmt.Errorf("failed to create clothing item: %w", err)
	}
	return nil
}

// Delete removes the item with its colour associations and outfit
// selections and returns what was deleted.
func (r *ClothingItemRepository) Delete(ctx context.Context, id uint) (*gorm.ClothingItem, error) {
	var deleted gorm.ClothingItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if errors.Is(err, gormlib.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return deleteItems(tx, []uint{id})
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete clothing item %d: %w", id, err)
	}
	return &deleted, nil
}

// DeleteByCategory removes every item of one category and returns them.
func (r *ClothingItemRepository) DeleteByCategory(ctx context.Context, category entities.Category) ([]gorm.ClothingItem, error) {
	var deleted []gorm.ClothingItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Where("category = ?", category).Order("id").Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}
		ids := make([]uint, len(deleted))
		for i, item := range deleted {
			ids[i] = item.ID
		}
		return deleteItems(tx, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s items: %w", category, err)
	}
	return deleted, nil
}

func deleteItems(tx *gormlib.DB, ids []uint) error {
	if err := tx.Where("item_id IN ?", ids).Delete(&gorm.ItemColour{}).Error; err != nil {
		return err
	}
	if err := tx.Where("top_item_id IN ? OR bottom_item_id IN ?", ids, ids).Delete(&gorm.OutfitSelection{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&gorm.ClothingItem{}).Error
}
