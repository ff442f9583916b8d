package middleware

import (
	"net/http"
	"strings"
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/logging"
)

// TokenVerifier checks a bearer token and returns its admin claims.
type TokenVerifier interface {
	Verify(token string) (*auth.AdminClaims, error)
}

// AdminAuthMiddleware requires an admin bearer token.
func AdminAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				logging.Warn("Admin token rejected",
					"request_id", auth.GetRequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdminMiddleware rejects requests whose claims are missing or not admin.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil || claims.Role() != string(constants.RoleAdmin) {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
