package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"palette-wardrobe/stylist/internal/api"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/config"
	"palette-wardrobe/stylist/internal/db"
	"palette-wardrobe/stylist/internal/db/repositories"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/models/dtos"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"
	"palette-wardrobe/stylist/internal/storage"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	deps    *api.Dependencies
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	logging.UseNop()

	cfg := &config.Config{
		DBDriver:         db.DriverSQLite,
		PaletteCacheTTL:  time.Hour,
		MatchMaxDistance: 100,
		MatchTopN:        3,
		MediaRoot:        t.TempDir(),
		MediaURL:         "/media/",
		AdminJWTSecret:   "test-secret",
		UploadRateLimit:  100,
		UploadBurst:      100,
		MaxUploadBytes:   1 << 20,
	}

	orm, err := db.InitSQLiteORM(":memory:")
	require.NoError(t, err)
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(orm))

	ctx := context.Background()
	require.NoError(t, repositories.NewColourRepository(orm).UpsertBatch(ctx, []gorm.Colour{
		{ID: 1, Name: "Red", R: 255, Applicability: entities.ApplicabilityTop},
		{ID: 2, Name: "Blue", B: 255, Applicability: entities.ApplicabilityBottom},
		{ID: 3, Name: "Black", Applicability: entities.ApplicabilityBoth},
	}))
	sqlxDB := sqlx.NewDb(sqlDB, "sqlite3")
	_, err = repositories.NewCompatiblePairRepository(sqlxDB).ReplaceAll(ctx, []entities.ColourPair{{TopColourID: 1, BottomColourID: 2}})
	require.NoError(t, err)

	deps := api.InitDependencies(
		cfg,
		orm,
		sqlxDB,
		common.NewCacheService(time.Hour, time.Minute),
		storage.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL),
		metrics.NewMetricsRegistry(prometheus.NewRegistry()),
	)
	return &testServer{handler: RegisterRoutes(deps), deps: deps}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, itemType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("item_type", itemType))
	part, err := mw.CreateFormFile("image", "item.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp dtos.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestWardrobeFlow(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, uploadRequest(t, "TOP", solidPNG(t, color.NRGBA{250, 5, 5, 255})))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var top dtos.UploadResponse
	decodeData(t, rr, &top)
	assert.Equal(t, "ok", top.ColourStatus)
	require.NotEmpty(t, top.Colours)
	assert.Equal(t, "Red", top.Colours[0].Name)

	rr = s.do(t, uploadRequest(t, "BOTTOM", solidPNG(t, color.NRGBA{2, 2, 250, 255})))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// the stored image is served back from the media prefix
	rr = s.do(t, httptest.NewRequest(http.MethodGet, top.Item.ImageURL, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, httptest.NewRequest(http.MethodGet, "/api/final-selections/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var final dtos.FinalSelectionsResponse
	decodeData(t, rr, &final)
	require.Len(t, final.Selections, 1)
	assert.Equal(t, top.Item.ID, final.Selections[0].Top.ID)
	assert.Equal(t, []string{"Red"}, final.Selections[0].Top.Colours)
	assert.Equal(t, 1, final.Generated.Created)

	rr = s.do(t, httptest.NewRequest(http.MethodGet, "/api/final-selections/", nil))
	decodeData(t, rr, &final)
	assert.Len(t, final.Selections, 1)
	assert.Equal(t, 0, final.Generated.Created)

	rr = s.do(t, httptest.NewRequest(http.MethodGet, "/api/wardrobe-items/?type=TOP", nil))
	var items []dtos.ClothingItemResponse
	decodeData(t, rr, &items)
	require.Len(t, items, 1)

	rr = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/wardrobe-items/"+itoa(top.Item.ID), nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/wardrobe-items/"+itoa(top.Item.ID), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, httptest.NewRequest(http.MethodDelete, "/api/delete-all/TOP/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := s.deps.Services.Tokens.Issue("ops", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/palette/invalidate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = s.do(t, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/delete-all/SHOES/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/delete-all/TOP/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = s.do(t, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var health entities.HealthCheckResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.PaletteColours)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
