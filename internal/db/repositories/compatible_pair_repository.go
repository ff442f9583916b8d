package repositories

import (
	"context"
	"fmt"
	"time"

	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// CompatiblePairRepository reads the colour compatibility table with sqlx.
type CompatiblePairRepository struct {
	db *sqlx.DB
}

func NewCompatiblePairRepository(db *sqlx.DB) *CompatiblePairRepository {
	return &CompatiblePairRepository{db: db}
}

func (r *CompatiblePairRepository) All(ctx context.Context) ([]entities.ColourPair, error) {
	var pairs []entities.ColourPair
	if err := r.db.SelectContext(ctx, &pairs, constants.SelectCompatiblePairs); err != nil {
		return nil, fmt.Errorf("failed to load compatible pairs: %w", err)
	}
	return pairs, nil
}

// ReplaceAll clears the table and inserts pairs in one transaction.
func (r *CompatiblePairRepository) ReplaceAll(ctx context.Context, pairs []entities.ColourPair) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, constants.DeleteCompatiblePairs); err != nil {
		return 0, fmt.Errorf("failed to clear compatible pairs: %w", err)
	}

	insert := tx.Rebind(constants.InsertCompatiblePair)
	now := time.Now().UTC()
	for _, p := range pairs {
		if _, err := tx.ExecContext(ctx, insert, p.TopColourID, p.BottomColourID, now); err != nil {
			return 0, fmt.Errorf("failed to insert compatible pair (%d,%d): %w", p.TopColourID, p.BottomColourID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit compatible pairs: %w", err)
	}
	return len(pairs), nil
}

// Ping checks the sqlx connection.
func (r *CompatiblePairRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
