package api

import (
	"net/http"
	"time"

	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/models/dtos"
)

// FinalSelectionsHandler handles GET /api/final-selections/
//
// Runs the outfit generator, then lists every selection strongest first.
func FinalSelectionsHandler(generator SelectionGenerator, wardrobe WardrobeAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx := r.Context()

		report, selections, err := generator.GenerateAndList(ctx)
		if err != nil {
			respondServiceError(w, r, initTime, err, constants.MsgSelectionsFailed)
			return
		}

		out := make([]dtos.SelectionResponse, len(selections))
		for i, s := range selections {
			out[i] = dtos.SelectionResponse{
				ID: s.ID,
				Top: dtos.SelectionItem{
					ID:       s.TopItemID,
					ImageURL: wardrobe.ImageURL(ctx, s.TopImageKey),
					Colours:  nonNil(s.TopColours),
				},
				Bottom: dtos.SelectionItem{
					ID:       s.BottomItemID,
					ImageURL: wardrobe.ImageURL(ctx, s.BottomImageKey),
					Colours:  nonNil(s.BottomColours),
				},
				MatchStrength: s.MatchStrength,
				CreatedAt:     s.CreatedAt,
			}
		}

		common.RespondSuccess(w, initTime, "Selections fetched", dtos.FinalSelectionsResponse{
			Generated: dtos.GenerationSummary{
				Candidates: report.Candidates,
				Skipped:    report.Skipped,
				Created:    report.Created,
				Conflicts:  report.Conflicts,
				Failures:   report.Failures,
			},
			Selections: out,
		})
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
