package entities

import (
	"fmt"
	"strings"
	"time"
)

// Category is the garment slot an item fills in an outfit.
type Category string

const (
	CategoryTop    Category = "TOP"
	CategoryBottom Category = "BOTTOM"
)

// ParseCategory accepts TOP or BOTTOM in any letter case.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryTop:
		return CategoryTop, nil
	case CategoryBottom:
		return CategoryBottom, nil
	default:
		return "", fmt.Errorf("invalid category %q: must be TOP or BOTTOM", s)
	}
}

// Applicability says which categories a palette colour may describe.
type Applicability string

const (
	ApplicabilityTop    Applicability = "TOP"
	ApplicabilityBottom Applicability = "BOTTOM"
	ApplicabilityBoth   Applicability = "BOTH"
)

// ParseApplicability accepts TOP, BOTTOM or BOTH.
func ParseApplicability(s string) (Applicability, error) {
	switch a := Applicability(strings.ToUpper(strings.TrimSpace(s))); a {
	case ApplicabilityTop, ApplicabilityBottom, ApplicabilityBoth:
		return a, nil
	default:
		return "", fmt.Errorf("invalid applicability %q: must be TOP, BOTTOM or BOTH", s)
	}
}

// AppliesTo reports whether a colour with this applicability can describe c.
func (a Applicability) AppliesTo(c Category) bool {
	return a == ApplicabilityBoth || string(a) == string(c)
}

// RGB is an 8-bit per channel colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// IsBlack reports whether the colour is the removed-background sentinel.
func (c RGB) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Association links a clothing item to one palette colour.
type Association struct {
	ItemID     uint
	Category   Category
	ColourID   uint
	Confidence *float64
}

// ItemPair is the (top item, bottom item) key of an outfit selection.
type ItemPair struct {
	TopID    uint
	BottomID uint
}

// ColourPair is one row of the top/bottom colour compatibility table.
type ColourPair struct {
	ID             uint `db:"id"`
	TopColourID    uint `db:"top_colour_id"`
	BottomColourID uint `db:"bottom_colour_id"`
}

// EnrichedSelection is an outfit selection joined with what a client needs to show it.
type EnrichedSelection struct {
	ID             uint
	TopItemID      uint
	BottomItemID   uint
	TopImageKey    string
	BottomImageKey string
	TopColours     []string
	BottomColours  []string
	MatchStrength  *float64
	CreatedAt      time.Time
}
