package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/palette"
)

const healthTimeout = 3 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CacheStatus interface {
	Backend() string
	Ping() error
}

type SnapshotSource interface {
	Snapshot(ctx context.Context) (*palette.Snapshot, error)
}

// HealthCheckHandler handles GET /healthCheck
//
// Reports the database, the cache backend and whether the palette loads.
// Responds 503 when any of them is down.
func HealthCheckHandler(db Pinger, cache CacheStatus, snapshots SnapshotSource, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		services["database"] = check(db.PingContext(ctx), "Database connected")
		services["cache"] = check(cache.Ping(), cache.Backend()+" cache reachable")

		paletteColours := 0
		snap, err := snapshots.Snapshot(ctx)
		if err == nil {
			paletteColours = len(snap.Entries)
		}
		services["palette"] = check(err, "Palette loaded")

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services:       services,
			Status:         overallStatus,
			PaletteColours: paletteColours,
			UpSince:        upSince.UTC(),
			Uptime:         time.Since(upSince).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		if overallStatus != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func check(err error, okDetails string) entities.ServiceStatus {
	if err != nil {
		return entities.ServiceStatus{Status: "down", Details: err.Error()}
	}
	return entities.ServiceStatus{Status: "ok", Details: okDetails}
}
