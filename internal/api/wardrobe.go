package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/models/dtos"
	"palette-wardrobe/stylist/internal/services"

	"github.com/go-chi/chi/v5"
)

// multipartOverhead is allowed on top of the image limit for the other
// form parts and boundaries.
const multipartOverhead = 1 << 20

// UploadHandler handles POST /api/upload/
//
// Multipart fields: image (file), item_type (TOP|BOTTOM). Responds 201
// with the stored item and how its colours were derived.
func UploadHandler(wardrobe WardrobeAPI, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondError(w, initTime, err, constants.MsgImageTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			common.RespondError(w, initTime, err, constants.MsgMissingImage, http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile(constants.FormFieldImage)
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgMissingImage, http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgUploadFailed, http.StatusBadRequest)
			return
		}

		result, err := wardrobe.Upload(r.Context(), services.UploadInput{
			ItemType:    r.FormValue(constants.FormFieldItemType),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err, constants.MsgUploadFailed)
			return
		}

		colours := make([]dtos.ColourMatch, len(result.Colours.Matches))
		for i, m := range result.Colours.Matches {
			colours[i] = dtos.ColourMatch{
				ColourID:   m.ColourID,
				Name:       m.Name,
				Distance:   m.Distance,
				Confidence: m.Confidence,
			}
		}

		resp := dtos.UploadResponse{
			Item: dtos.ClothingItemResponse{
				ID:        result.Item.ID,
				ItemType:  string(result.Item.Category),
				ImageURL:  result.ImageURL,
				CreatedAt: result.Item.CreatedAt,
			},
			ColourStatus:   result.Colours.Status,
			DominantColour: result.Colours.Dominant.String(),
			Colours:        colours,
		}
		common.RespondSuccess(w, initTime, "Item uploaded", resp, http.StatusCreated)
	}
}

// ListItemsHandler handles GET /api/wardrobe-items/?type=TOP|BOTTOM
func ListItemsHandler(wardrobe WardrobeAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		views, err := wardrobe.List(r.Context(), r.URL.Query().Get("type"))
		if err != nil {
			respondServiceError(w, r, initTime, err, constants.MsgListFailed)
			return
		}

		items := make([]dtos.ClothingItemResponse, len(views))
		for i, v := range views {
			items[i] = dtos.ClothingItemResponse{
				ID:        v.Item.ID,
				ItemType:  string(v.Item.Category),
				ImageURL:  v.ImageURL,
				CreatedAt: v.Item.CreatedAt,
			}
		}
		common.RespondSuccess(w, initTime, "Items fetched", items)
	}
}

// DeleteItemHandler handles DELETE /api/wardrobe-items/{id}
func DeleteItemHandler(wardrobe WardrobeAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id == 0 {
			common.RespondError(w, initTime, err, constants.MsgInvalidItemID, http.StatusBadRequest)
			return
		}

		if err := wardrobe.Delete(r.Context(), uint(id)); err != nil {
			respondServiceError(w, r, initTime, err, constants.MsgDeleteFailed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteAllHandler handles DELETE /api/delete-all/{item_type}/
func DeleteAllHandler(wardrobe WardrobeAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		itemType := chi.URLParam(r, "item_type")

		deleted, err := wardrobe.DeleteAll(r.Context(), itemType)
		if err != nil {
			respondServiceError(w, r, initTime, err, constants.MsgDeleteFailed)
			return
		}

		common.RespondSuccess(w, initTime, "Items deleted", dtos.DeleteAllResponse{
			ItemType: itemType,
			Deleted:  deleted,
		})
	}
}
