package api

import (
	"net/http"
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/models/dtos"
)

// InvalidatePaletteHandler handles POST /api/admin/palette/invalidate
//
// The next upload reloads the palette from the database.
func InvalidatePaletteHandler(cache PaletteInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cache.Invalidate()

		subject := ""
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			subject = claims.Subject()
		}
		logging.Info("Palette cache invalidated", "by", subject, "request_id", auth.GetRequestID(r.Context()))

		common.RespondSuccess(w, initTime, constants.MsgPaletteInvalidated, dtos.PaletteInvalidateResponse{
			InvalidatedAt: initTime.UTC(),
		})
	}
}
