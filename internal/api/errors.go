package api

import (
	"errors"
	"net/http"
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/services"
)

// mapErrorKindToHTTPStatus maps service error kinds to HTTP status codes
func mapErrorKindToHTTPStatus(kind services.ErrorKind) int {
	switch kind {
	case services.KindInputValidation, services.KindDecode:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindPersistenceConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status of its kind. Client errors
// carry the service message; server errors get fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, fallback string) {
	status := mapErrorKindToHTTPStatus(services.KindOf(err))

	var we *services.WardrobeError
	message := fallback
	if errors.As(err, &we) && status < http.StatusInternalServerError {
		message = we.Message
		if message == constants.MsgImageTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
	}

	if status >= http.StatusInternalServerError {
		logging.Error("Request failed",
			"request_id", auth.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	common.RespondError(w, initTime, err, message, status)
}
