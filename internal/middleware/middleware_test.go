package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logging.UseNop()
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2, "10.0.0.9")
	h := limiter.Middleware(okHandler())

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/upload/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// A different client has its own bucket.
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, do("10.0.0.9"))
	}
}

func TestRateLimiterUsesForwardedFor(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	h := limiter.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.False(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestAdminAuth(t *testing.T) {
	tokens := auth.NewTokenService("secret")
	token, err := tokens.Issue("ops", time.Hour)
	require.NoError(t, err)

	var seen string
	h := AdminAuthMiddleware(tokens)(IsAdminMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserClaims(r.Context()).Subject()
		w.WriteHeader(http.StatusOK)
	})))

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/delete-all/TOP/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
	assert.Equal(t, "ops", seen)
}

func TestIsAdminWithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	IsAdminMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(m))
	var ctxID string
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctxID = auth.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, rec.Header().Get(HeaderRequestID), ctxID)

	req := httptest.NewRequest(http.MethodGet, "/items/8", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", rec.Header().Get(HeaderRequestID))
}
