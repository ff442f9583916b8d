package api

import (
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/colour"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/config"
	"palette-wardrobe/stylist/internal/db/repositories"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/palette"
	"palette-wardrobe/stylist/internal/services"
	"palette-wardrobe/stylist/internal/storage"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

type Repositories struct {
	Items       *repositories.ClothingItemRepository
	Colours     *repositories.ColourRepository
	Pairs       *repositories.CompatiblePairRepository
	ItemColours *repositories.ItemColourRepository
	Selections  *repositories.OutfitSelectionRepository
}

type Services struct {
	Cache    common.CacheInterface
	Palette  *palette.Cache
	Images   storage.ImageStore
	Wardrobe *services.WardrobeService
	Pairing  *services.PairingService
	Tokens   *auth.TokenService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Config   *config.Config
	DB       *sqlx.DB
	Metrics  *metrics.MetricsRegistry
	UpSince  time.Time
}

// InitDependencies wires repositories and services over already opened
// connections.
func InitDependencies(
	cfg *config.Config,
	orm *gormlib.DB,
	sqlDB *sqlx.DB,
	cache common.CacheInterface,
	images storage.ImageStore,
	m *metrics.MetricsRegistry,
) *Dependencies {
	repos := &Repositories{
		Items:       repositories.NewClothingItemRepository(orm),
		Colours:     repositories.NewColourRepository(orm),
		Pairs:       repositories.NewCompatiblePairRepository(sqlDB),
		ItemColours: repositories.NewItemColourRepository(orm),
		Selections:  repositories.NewOutfitSelectionRepository(orm),
	}

	paletteCache := palette.NewCache(repos.Colours, cache, cfg.PaletteCacheTTL, m)

	preprocess := colour.DefaultPreprocessOptions()
	if cfg.PreprocessMaxDim > 0 {
		preprocess.MaxDimension = cfg.PreprocessMaxDim
	}
	if cfg.PreprocessBGTolerance > 0 {
		preprocess.BackgroundTolerance = cfg.PreprocessBGTolerance
	}

	wardrobe := services.NewWardrobeService(
		repos.Items,
		repos.ItemColours,
		images,
		paletteCache,
		services.WardrobeServiceOptions{
			Preprocess:     preprocess,
			Extract:        colour.DefaultExtractOptions(),
			Match:          colour.MatchOptions{MaxDistance: cfg.MatchMaxDistance, TopN: cfg.MatchTopN},
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		m,
	)

	svcs := &Services{
		Cache:    cache,
		Palette:  paletteCache,
		Images:   images,
		Wardrobe: wardrobe,
		Pairing:  services.NewPairingService(repos.ItemColours, repos.Pairs, repos.Selections, m),
		Tokens:   auth.NewTokenService(cfg.AdminJWTSecret),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Config:   cfg,
		DB:       sqlDB,
		Metrics:  m,
		UpSince:  time.Now(),
	}
}
