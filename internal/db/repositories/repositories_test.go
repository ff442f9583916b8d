package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"palette-wardrobe/stylist/internal/db"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gormlib.DB, *sqlx.DB) {
	t.Helper()
	logging.UseNop()

	orm, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(orm); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return orm, sqlx.NewDb(sqlDB, "sqlite3")
}

func seedPalette(t *testing.T, orm *gormlib.DB) {
	t.Helper()
	colours := []gorm.Colour{
		{ID: 1, Name: "Red", R: 255, Applicability: entities.ApplicabilityTop},
		{ID: 2, Name: "Blue", B: 255, Applicability: entities.ApplicabilityBottom},
		{ID: 3, Name: "Black", Applicability: entities.ApplicabilityBoth},
	}
	if err := NewColourRepository(orm).UpsertBatch(context.Background(), colours); err != nil {
		t.Fatalf("Failed to seed colours: %v", err)
	}
}

func createItem(t *testing.T, repo *ClothingItemRepository, category entities.Category, key string) *gorm.ClothingItem {
	t.Helper()
	item := &gorm.ClothingItem{Category: category, ImageKey: key}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	return item
}

func ptr(f float64) *float64 { return &f }

func TestClothingItemRepository_ListNewestFirst(t *testing.T) {
	orm, _ := setupTestDB(t)
	repo := NewClothingItemRepository(orm)
	ctx := context.Background()

	old := &gorm.ClothingItem{Category: entities.CategoryTop, ImageKey: "a.png", CreatedAt: time.Now().Add(-time.Hour)}
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	newer := createItem(t, repo, entities.CategoryTop, "b.png")
	bottom := createItem(t, repo, entities.CategoryBottom, "c.png")

	all, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(all))
	}
	if all[len(all)-1].ID != old.ID {
		t.Errorf("Expected oldest item last, got %d", all[len(all)-1].ID)
	}

	top := entities.CategoryTop
	tops, err := repo.List(ctx, &top)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tops) != 2 || tops[0].ID != newer.ID {
		t.Errorf("Expected [%d %d], got %+v", newer.ID, old.ID, tops)
	}
	for _, item := range tops {
		if item.ID == bottom.ID {
			t.Error("Bottom item returned for TOP filter")
		}
	}
}

func TestClothingItemRepository_GetNotFound(t *testing.T) {
	orm, _ := setupTestDB(t)

	_, err := NewClothingItemRepository(orm).Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestClothingItemRepository_DeleteCascades(t *testing.T) {
	orm, _ := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()

	items := NewClothingItemRepository(orm)
	itemColours := NewItemColourRepository(orm)
	selections := NewOutfitSelectionRepository(orm)

	top := createItem(t, items, entities.CategoryTop, "top.png")
	bottom := createItem(t, items, entities.CategoryBottom, "bottom.png")
	if err := itemColours.Create(ctx, top.ID, 1, ptr(0.9)); err != nil {
		t.Fatalf("Create item colour failed: %v", err)
	}
	if _, err := selections.Create(ctx, top.ID, bottom.ID, ptr(0.8)); err != nil {
		t.Fatalf("Create selection failed: %v", err)
	}

	deleted, err := items.Delete(ctx, top.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ImageKey != "top.png" {
		t.Errorf("Expected deleted image key top.png, got %s", deleted.ImageKey)
	}

	pairs, _ := selections.Pairs(ctx)
	if len(pairs) != 0 {
		t.Errorf("Expected selections removed with item, got %v", pairs)
	}
	assocs, _ := itemColours.ListDistinctByCategory(ctx, entities.CategoryTop)
	if len(assocs) != 0 {
		t.Errorf("Expected associations removed with item, got %v", assocs)
	}

	if _, err := items.Delete(ctx, top.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClothingItemRepository_DeleteByCategory(t *testing.T) {
	orm, _ := setupTestDB(t)
	repo := NewClothingItemRepository(orm)
	ctx := context.Background()

	createItem(t, repo, entities.CategoryTop, "t1.png")
	createItem(t, repo, entities.CategoryTop, "t2.png")
	keep := createItem(t, repo, entities.CategoryBottom, "b1.png")

	deleted, err := repo.DeleteByCategory(ctx, entities.CategoryTop)
	if err != nil {
		t.Fatalf("DeleteByCategory failed: %v", err)
	}
	if len(deleted) != 2 {
		t.Errorf("Expected 2 deleted, got %d", len(deleted))
	}

	left, _ := repo.List(ctx, nil)
	if len(left) != 1 || left[0].ID != keep.ID {
		t.Errorf("Expected only bottom item left, got %+v", left)
	}

	none, err := repo.DeleteByCategory(ctx, entities.CategoryTop)
	if err != nil || len(none) != 0 {
		t.Errorf("Expected empty delete, got %v %v", none, err)
	}
}

func TestItemColourRepository_CreateConflict(t *testing.T) {
	orm, _ := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()

	item := createItem(t, NewClothingItemRepository(orm), entities.CategoryTop, "x.png")
	repo := NewItemColourRepository(orm)

	if err := repo.Create(ctx, item.ID, 1, ptr(0.5)); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if err := repo.Create(ctx, item.ID, 1, ptr(0.7)); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}

	assocs, err := repo.ListDistinctByCategory(ctx, entities.CategoryTop)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(assocs) != 1 {
		t.Fatalf("Expected 1 association, got %d", len(assocs))
	}
	if assocs[0].Confidence == nil || *assocs[0].Confidence != 0.5 {
		t.Errorf("Expected original confidence 0.5 kept, got %v", assocs[0].Confidence)
	}
}

func TestItemColourRepository_ListDistinctByCategory(t *testing.T) {
	orm, _ := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()
	items := NewClothingItemRepository(orm)
	repo := NewItemColourRepository(orm)

	top := createItem(t, items, entities.CategoryTop, "t.png")
	bottom := createItem(t, items, entities.CategoryBottom, "b.png")
	_ = repo.Create(ctx, top.ID, 3, nil)
	_ = repo.Create(ctx, top.ID, 1, ptr(0.9))
	_ = repo.Create(ctx, bottom.ID, 2, ptr(0.4))

	tops, err := repo.ListDistinctByCategory(ctx, entities.CategoryTop)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tops) != 2 || tops[0].ColourID != 1 || tops[1].ColourID != 3 {
		t.Errorf("Expected top colours [1 3], got %+v", tops)
	}
	if tops[1].Confidence != nil {
		t.Errorf("Expected nil confidence, got %v", *tops[1].Confidence)
	}

	bottoms, _ := repo.ListDistinctByCategory(ctx, entities.CategoryBottom)
	if len(bottoms) != 1 || bottoms[0].ItemID != bottom.ID {
		t.Errorf("Expected one bottom association, got %+v", bottoms)
	}

	names, err := repo.ColourNamesByItem(ctx, []uint{top.ID})
	if err != nil {
		t.Fatalf("ColourNamesByItem failed: %v", err)
	}
	if len(names[top.ID]) != 2 {
		t.Errorf("Expected two colour names, got %v", names[top.ID])
	}
}

func TestOutfitSelectionRepository_CreateConflictAndOrdering(t *testing.T) {
	orm, _ := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()
	items := NewClothingItemRepository(orm)
	repo := NewOutfitSelectionRepository(orm)

	t1 := createItem(t, items, entities.CategoryTop, "t1.png")
	t2 := createItem(t, items, entities.CategoryTop, "t2.png")
	b1 := createItem(t, items, entities.CategoryBottom, "b1.png")
	_ = NewItemColourRepository(orm).Create(ctx, t1.ID, 1, ptr(0.9))

	if _, err := repo.Create(ctx, t1.ID, b1.ID, ptr(0.3)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, t1.ID, b1.ID, ptr(0.9)); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
	if _, err := repo.Create(ctx, t2.ID, b1.ID, ptr(0.7)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := repo.Exists(ctx, t1.ID, b1.ID)
	if err != nil || !exists {
		t.Errorf("Expected selection to exist, got %v %v", exists, err)
	}
	exists, _ = repo.Exists(ctx, b1.ID, t1.ID)
	if exists {
		t.Error("Expected reversed pair not to exist")
	}

	enriched, err := repo.AllEnriched(ctx)
	if err != nil {
		t.Fatalf("AllEnriched failed: %v", err)
	}
	if len(enriched) != 2 {
		t.Fatalf("Expected 2 selections, got %d", len(enriched))
	}
	if enriched[0].TopItemID != t2.ID {
		t.Errorf("Expected strongest match first, got top %d", enriched[0].TopItemID)
	}
	if enriched[1].TopImageKey != "t1.png" || enriched[1].BottomImageKey != "b1.png" {
		t.Errorf("Expected image keys joined, got %+v", enriched[1])
	}
	if len(enriched[1].TopColours) != 1 || enriched[1].TopColours[0] != "Red" {
		t.Errorf("Expected top colours [Red], got %v", enriched[1].TopColours)
	}
}

func TestCompatiblePairRepository_ReplaceAll(t *testing.T) {
	orm, sqlxDB := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()
	repo := NewCompatiblePairRepository(sqlxDB)

	n, err := repo.ReplaceAll(ctx, []entities.ColourPair{
		{TopColourID: 1, BottomColourID: 2},
		{TopColourID: 3, BottomColourID: 2},
	})
	if err != nil || n != 2 {
		t.Fatalf("ReplaceAll failed: %d %v", n, err)
	}

	n, err = repo.ReplaceAll(ctx, []entities.ColourPair{{TopColourID: 1, BottomColourID: 3}})
	if err != nil || n != 1 {
		t.Fatalf("Second ReplaceAll failed: %d %v", n, err)
	}

	pairs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].TopColourID != 1 || pairs[0].BottomColourID != 3 {
		t.Errorf("Expected only (1,3), got %+v", pairs)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCompatiblePairRepository_KeepsRepeatedPairs(t *testing.T) {
	orm, sqlxDB := setupTestDB(t)
	seedPalette(t, orm)
	ctx := context.Background()
	repo := NewCompatiblePairRepository(sqlxDB)

	n, err := repo.ReplaceAll(ctx, []entities.ColourPair{
		{TopColourID: 1, BottomColourID: 2},
		{TopColourID: 1, BottomColourID: 2},
	})
	if err != nil || n != 2 {
		t.Fatalf("ReplaceAll failed: %d %v", n, err)
	}

	pairs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 rows, got %+v", pairs)
	}
	if pairs[0].ID == pairs[1].ID {
		t.Errorf("Expected distinct ids, got %d twice", pairs[0].ID)
	}
}

func TestColourRepository_UpsertOverwrites(t *testing.T) {
	orm, _ := setupTestDB(t)
	seedPalette(t, orm)
	repo := NewColourRepository(orm)
	ctx := context.Background()

	if err := repo.UpsertBatch(ctx, []gorm.Colour{{ID: 1, Name: "Cherry", R: 200, Applicability: entities.ApplicabilityBoth}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	colours, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(colours) != 3 {
		t.Fatalf("Expected 3 colours, got %d", len(colours))
	}
	if colours[0].Name != "Cherry" || colours[0].Applicability != entities.ApplicabilityBoth {
		t.Errorf("Expected colour 1 overwritten, got %+v", colours[0])
	}
	count, _ := repo.Count(ctx)
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}
