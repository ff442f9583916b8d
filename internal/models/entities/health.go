package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthCheckResponse reports the database, cache and palette state.
type HealthCheckResponse struct {
	Status         string                   `json:"status"`
	Services       map[string]ServiceStatus `json:"services"`
	PaletteColours int                      `json:"palette_colours"`
	UpSince        time.Time                `json:"up_since"`
	Uptime         string                   `json:"uptime"`
}
