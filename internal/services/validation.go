package services

import (
	"fmt"
	"strings"

	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"
)

// ValidateUpload checks an upload before anything is stored. The image must
// be non-empty and within maxBytes. Content that does not decode is still
// accepted and falls back to neutral gray during colour derivation.
func ValidateUpload(itemType string, data []byte, maxBytes int64) (entities.Category, error) {
	category, err := entities.ParseCategory(itemType)
	if err != nil {
		return "", newError(KindInputValidation, constants.MsgInvalidCategory, err)
	}
	if len(data) == 0 {
		return "", newError(KindInputValidation, constants.MsgMissingImage, nil)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", newError(KindInputValidation, constants.MsgImageTooLarge, nil)
	}
	return category, nil
}

// ValidateItemColour enforces that a colour may describe the item's category.
func ValidateItemColour(item *gorm.ClothingItem, applicability entities.Applicability) error {
	if !applicability.AppliesTo(item.Category) {
		return newError(KindInputValidation,
			fmt.Sprintf("colour applicability %s does not fit %s item %d", applicability, item.Category, item.ID), nil)
	}
	return nil
}

// ValidateCompatiblePair enforces top colour ∈ {TOP,BOTH} and
// bottom colour ∈ {BOTTOM,BOTH}.
func ValidateCompatiblePair(top, bottom gorm.Colour) error {
	if !top.Applicability.AppliesTo(entities.CategoryTop) {
		return newError(KindInputValidation,
			fmt.Sprintf("colour %d (%s) cannot be a top colour", top.ID, top.Applicability), nil)
	}
	if !bottom.Applicability.AppliesTo(entities.CategoryBottom) {
		return newError(KindInputValidation,
			fmt.Sprintf("colour %d (%s) cannot be a bottom colour", bottom.ID, bottom.Applicability), nil)
	}
	return nil
}

// ValidateSelection enforces that a selection pairs a TOP with a BOTTOM.
func ValidateSelection(top, bottom entities.Association) error {
	if top.Category != entities.CategoryTop {
		return newError(KindInputValidation, fmt.Sprintf("item %d is not a top", top.ItemID), nil)
	}
	if bottom.Category != entities.CategoryBottom {
		return newError(KindInputValidation, fmt.Sprintf("item %d is not a bottom", bottom.ItemID), nil)
	}
	return nil
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
