package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// ColourMatch is one palette colour associated with an item.
type ColourMatch struct {
	ColourID   uint    `json:"colour_id"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
}

type ClothingItemResponse struct {
	ID        uint      `json:"id"`
	ItemType  string    `json:"item_type"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadResponse struct {
	Item           ClothingItemResponse `json:"item"`
	ColourStatus   string               `json:"colour_status"`
	DominantColour string               `json:"dominant_colour"`
	Colours        []ColourMatch        `json:"colours"`
}

type DeleteAllResponse struct {
	ItemType string `json:"item_type"`
	Deleted  int    `json:"deleted"`
}

type SelectionItem struct {
	ID       uint     `json:"id"`
	ImageURL string   `json:"image_url"`
	Colours  []string `json:"colours"`
}

type SelectionResponse struct {
	ID            uint          `json:"id"`
	Top           SelectionItem `json:"top"`
	Bottom        SelectionItem `json:"bottom"`
	MatchStrength *float64      `json:"match_strength"`
	CreatedAt     time.Time     `json:"created_at"`
}

type GenerationSummary struct {
	Candidates int `json:"candidates"`
	Skipped    int `json:"skipped"`
	Created    int `json:"created"`
	Conflicts  int `json:"conflicts"`
	Failures   int `json:"failures"`
}

type FinalSelectionsResponse struct {
	Generated  GenerationSummary   `json:"generated"`
	Selections []SelectionResponse `json:"selections"`
}

type PaletteInvalidateResponse struct {
	InvalidatedAt time.Time `json:"invalidated_at"`
}
