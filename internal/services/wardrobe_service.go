package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"palette-wardrobe/stylist/internal/colour"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/db/repositories"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"

	"github.com/google/uuid"
)

// UploadInput is one garment photo as received from a client.
type UploadInput struct {
	ItemType    string
	Filename    string
	ContentType string
	Data        []byte
}

// ColourDerivation is what the colour pipeline made of an upload.
type ColourDerivation struct {
	Status   string
	Dominant entities.RGB
	Matches  []colour.Match
}

type UploadResult struct {
	Item     gorm.ClothingItem
	ImageURL string
	Colours  ColourDerivation
}

// ItemView is a stored item with a URL a client can fetch its image from.
type ItemView struct {
	Item     gorm.ClothingItem
	ImageURL string
}

type WardrobeServiceOptions struct {
	Preprocess     colour.PreprocessOptions
	Extract        colour.ExtractOptions
	Match          colour.MatchOptions
	MaxUploadBytes int64
}

// WardrobeService owns uploads, listing and deletion of clothing items.
type WardrobeService struct {
	items        ClothingItemStore
	itemColours  ItemColourStore
	images       ImageStore
	palette      PaletteProvider
	preprocessor *colour.Preprocessor
	extractor    *colour.DominantColourExtractor
	matchOpts    colour.MatchOptions
	maxBytes     int64
	metrics      *metrics.MetricsRegistry
}

func NewWardrobeService(
	items ClothingItemStore,
	itemColours ItemColourStore,
	images ImageStore,
	palette PaletteProvider,
	opts WardrobeServiceOptions,
	m *metrics.MetricsRegistry,
) *WardrobeService {
	if opts.Match.TopN <= 0 {
		opts.Match.TopN = colour.DefaultTopN
	}
	if opts.Match.MaxDistance <= 0 {
		opts.Match.MaxDistance = colour.DefaultMaxDistance
	}
	return &WardrobeService{
		items:        items,
		itemColours:  itemColours,
		images:       images,
		palette:      palette,
		preprocessor: colour.NewPreprocessor(opts.Preprocess),
		extractor:    colour.NewDominantColourExtractor(opts.Extract),
		matchOpts:    opts.Match,
		maxBytes:     opts.MaxUploadBytes,
		metrics:      m,
	}
}

// Upload stores the image and the item, then derives colour associations.
// Only validation and storage failures fail the upload; colour derivation
// problems are reported in the result's status.
func (s *WardrobeService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	category, err := ValidateUpload(in.ItemType, in.Data, s.maxBytes)
	if err != nil {
		return nil, err
	}

	key := constants.ImageKeyPrefix + uuid.NewString() + imageExt(in.Filename, in.Data)
	contentType := in.ContentType
	if !isImageType(contentType) {
		contentType = httpImageType(in.Data)
	}
	if err := s.images.Save(ctx, key, contentType, bytes.NewReader(in.Data)); err != nil {
		return nil, newError(KindUnexpected, constants.MsgUploadFailed, err)
	}

	item := &gorm.ClothingItem{Category: category, ImageKey: key}
	if err := s.items.Create(ctx, item); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			logging.Warn("Failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, newError(KindUnexpected, constants.MsgUploadFailed, err)
	}

	derivation := s.DeriveColours(ctx, item, in.Data)

	url, err := s.images.URL(ctx, key)
	if err != nil {
		logging.Warn("Failed to build image URL", "key", key, "error", err)
	}
	return &UploadResult{Item: *item, ImageURL: url, Colours: derivation}, nil
}

// DeriveColours runs preprocess, extraction and matching for a stored item
// and persists the matched colours. It never fails; the returned status
// says how far it got.
func (s *WardrobeService) DeriveColours(ctx context.Context, item *gorm.ClothingItem, data []byte) ColourDerivation {
	start := time.Now()
	result := ColourDerivation{Status: constants.ColourStatusOK, Dominant: colour.NeutralGray}
	defer func() {
		if s.metrics != nil {
			s.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
			s.metrics.ExtractionOutcomes.WithLabelValues(result.Status).Inc()
			s.metrics.MatchesPerUpload.Observe(float64(len(result.Matches)))
		}
	}()

	field, err := s.preprocessor.Process(data)
	if err != nil {
		logging.Warn("Image could not be decoded, using neutral gray",
			"item_id", item.ID, "kind", KindDecode, "error", err)
		result.Status = constants.ColourStatusDecodeFailed
	} else {
		extraction := s.extractor.Extract(field)
		result.Dominant = extraction.RGB
		if extraction.Degraded {
			logging.Warn("Dominant colour extraction degraded",
				"item_id", item.ID, "kind", KindProcessingDegraded, "reason", extraction.Reason)
			result.Status = constants.ColourStatusDegraded
		} else {
			logging.Debug("Dominant colour extracted",
				"item_id", item.ID, "rgb", extraction.RGB.String(),
				"bandwidth", extraction.Bandwidth, "clusters", extraction.Clusters,
				"foreground_pixels", extraction.ForegroundPixels)
		}
	}

	palette, err := s.palette.Palette(ctx)
	if err != nil {
		logging.Error("Palette unavailable, item stored without colours",
			"item_id", item.ID, "kind", KindUnexpected, "error", err)
		result.Status = constants.ColourStatusFailed
		return result
	}

	matches := palette.Match(result.Dominant, item.Category, s.matchOpts)
	if len(matches) == 0 {
		logging.Info("No palette colour within range",
			"item_id", item.ID, "kind", KindNoMatch, "rgb", result.Dominant.String())
		if result.Status == constants.ColourStatusOK {
			result.Status = constants.ColourStatusNoMatch
		}
		return result
	}

	for _, m := range matches {
		if err := ValidateItemColour(item, m.Applicability); err != nil {
			logging.Error("Skipping inapplicable colour", "item_id", item.ID, "colour_id", m.ColourID, "error", err)
			continue
		}
		confidence := m.Confidence
		err := s.itemColours.Create(ctx, item.ID, m.ColourID, &confidence)
		switch {
		case err == nil:
			result.Matches = append(result.Matches, m)
		case errors.Is(err, repositories.ErrConflict):
			logging.Debug("Colour already associated", "item_id", item.ID, "colour_id", m.ColourID, "kind", KindPersistenceConflict)
			result.Matches = append(result.Matches, m)
		default:
			logging.Error("Failed to store item colour",
				"item_id", item.ID, "colour_id", m.ColourID, "kind", KindUnexpected, "error", err)
			result.Status = constants.ColourStatusFailed
		}
	}
	return result
}

// List returns items newest first. An empty itemType lists every category.
func (s *WardrobeService) List(ctx context.Context, itemType string) ([]ItemView, error) {
	var filter *entities.Category
	if strings.TrimSpace(itemType) != "" {
		category, err := entities.ParseCategory(itemType)
		if err != nil {
			return nil, newError(KindInputValidation, constants.MsgInvalidCategory, err)
		}
		filter = &category
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, newError(KindUnexpected, constants.MsgListFailed, err)
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = ItemView{Item: item, ImageURL: s.imageURL(ctx, item.ImageKey)}
	}
	return views, nil
}

// Delete removes the item, its associations and selections, then its image.
func (s *WardrobeService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return newError(KindInputValidation, constants.MsgInvalidItemID, nil)
	}

	item, err := s.items.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(KindNotFound, constants.MsgItemNotFound, err)
	}
	if err != nil {
		return newError(KindUnexpected, constants.MsgDeleteFailed, err)
	}

	s.removeImage(ctx, item.ImageKey)
	return nil
}

// DeleteAll removes every item of one category and returns how many went.
func (s *WardrobeService) DeleteAll(ctx context.Context, itemType string) (int, error) {
	category, err := entities.ParseCategory(itemType)
	if err != nil {
		return 0, newError(KindInputValidation, constants.MsgInvalidCategory, err)
	}

	deleted, err := s.items.DeleteByCategory(ctx, category)
	if err != nil {
		return 0, newError(KindUnexpected, constants.MsgDeleteFailed, err)
	}
	for _, item := range deleted {
		s.removeImage(ctx, item.ImageKey)
	}

	logging.Info("Deleted wardrobe items by category", "category", category, "count", len(deleted))
	return len(deleted), nil
}

// ImageURL resolves a stored image key for clients. Failures yield "".
func (s *WardrobeService) ImageURL(ctx context.Context, key string) string {
	return s.imageURL(ctx, key)
}

func (s *WardrobeService) imageURL(ctx context.Context, key string) string {
	url, err := s.images.URL(ctx, key)
	if err != nil {
		logging.Warn("Failed to build image URL", "key", key, "error", err)
		return ""
	}
	return url
}

func (s *WardrobeService) removeImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		logging.Warn("Failed to delete image", "key", key, "error", err)
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

func imageExt(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return ext
	}
	if ext, ok := imageExtensions[httpImageType(data)]; ok {
		return ext
	}
	return ".img"
}

func httpImageType(data []byte) string {
	return http.DetectContentType(data)
}
