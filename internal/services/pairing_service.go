package services

import (
	"context"
	"errors"
	"time"

	"palette-wardrobe/stylist/internal/db/repositories"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/models/entities"
)

// GenerationReport counts what one generator run did with its candidates.
type GenerationReport struct {
	Candidates int
	Skipped    int
	Created    int
	Conflicts  int
	Failures   int
}

// PairingService turns colour associations into outfit selections.
type PairingService struct {
	itemColours ItemColourStore
	pairs       CompatiblePairStore
	selections  OutfitSelectionStore
	metrics     *metrics.MetricsRegistry
}

func NewPairingService(itemColours ItemColourStore, pairs CompatiblePairStore, selections OutfitSelectionStore, m *metrics.MetricsRegistry) *PairingService {
	return &PairingService{
		itemColours: itemColours,
		pairs:       pairs,
		selections:  selections,
		metrics:     m,
	}
}

// Generate examines every (top association, bottom association) candidate
// and creates a selection for each item pair whose colours are compatible
// and that is not selected yet. Cost is O(T×B) in the number of distinct
// top and bottom associations; large wardrobes pay for it on every call.
//
// Per-candidate failures are logged and counted, never returned. A
// uniqueness conflict from a concurrent run counts as a conflict and the
// pair is treated as selected. Only failing to read the inputs is an error.
func (s *PairingService) Generate(ctx context.Context) (*GenerationReport, error) {
	start := time.Now()

	tops, err := s.itemColours.ListDistinctByCategory(ctx, entities.CategoryTop)
	if err != nil {
		return nil, newError(KindUnexpected, "failed to load top colours", err)
	}
	bottoms, err := s.itemColours.ListDistinctByCategory(ctx, entities.CategoryBottom)
	if err != nil {
		return nil, newError(KindUnexpected, "failed to load bottom colours", err)
	}
	compatibleRows, err := s.pairs.All(ctx)
	if err != nil {
		return nil, newError(KindUnexpected, "failed to load compatible pairs", err)
	}
	existing, err := s.selections.Pairs(ctx)
	if err != nil {
		return nil, newError(KindUnexpected, "failed to load existing selections", err)
	}

	compatible := make(map[[2]uint]struct{}, len(compatibleRows))
	for _, p := range compatibleRows {
		compatible[[2]uint{p.TopColourID, p.BottomColourID}] = struct{}{}
	}
	excluded := make(map[entities.ItemPair]struct{}, len(existing))
	for _, p := range existing {
		excluded[p] = struct{}{}
	}

	report := &GenerationReport{}
	for _, top := range tops {
		for _, bottom := range bottoms {
			report.Candidates++
			pair := entities.ItemPair{TopID: top.ItemID, BottomID: bottom.ItemID}

			if _, done := excluded[pair]; done {
				report.Skipped++
				continue
			}
			if _, ok := compatible[[2]uint{top.ColourID, bottom.ColourID}]; !ok {
				continue
			}

			if s.createSelection(ctx, top, bottom, report) {
				excluded[pair] = struct{}{}
			}
		}
	}

	s.record(report, time.Since(start))
	logging.Info("Outfit pairing finished",
		"top_associations", len(tops),
		"bottom_associations", len(bottoms),
		"candidates", report.Candidates,
		"created", report.Created,
		"skipped", report.Skipped,
		"conflicts", report.Conflicts,
		"failures", report.Failures,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// createSelection reports whether the pair is now known to be selected.
func (s *PairingService) createSelection(ctx context.Context, top, bottom entities.Association, report *GenerationReport) bool {
	if err := ValidateSelection(top, bottom); err != nil {
		report.Failures++
		logging.Error("Skipping invalid pairing candidate", "error", err)
		return false
	}

	exists, err := s.selections.Exists(ctx, top.ItemID, bottom.ItemID)
	if err != nil {
		report.Failures++
		logging.Error("Failed to check outfit selection",
			"top_item_id", top.ItemID, "bottom_item_id", bottom.ItemID, "kind", KindUnexpected, "error", err)
		return false
	}
	if exists {
		report.Skipped++
		return true
	}

	_, err = s.selections.Create(ctx, top.ItemID, bottom.ItemID, matchStrength(top.Confidence, bottom.Confidence))
	switch {
	case err == nil:
		report.Created++
		return true
	case errors.Is(err, repositories.ErrConflict):
		report.Conflicts++
		logging.Debug("Outfit selection created concurrently",
			"top_item_id", top.ItemID, "bottom_item_id", bottom.ItemID, "kind", KindPersistenceConflict)
		return true
	default:
		report.Failures++
		logging.Error("Failed to create outfit selection",
			"top_item_id", top.ItemID, "bottom_item_id", bottom.ItemID, "kind", KindUnexpected, "error", err)
		return false
	}
}

// GenerateAndList runs the generator and returns every selection, strongest
// first.
func (s *PairingService) GenerateAndList(ctx context.Context) (*GenerationReport, []entities.EnrichedSelection, error) {
	report, err := s.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}
	selections, err := s.selections.AllEnriched(ctx)
	if err != nil {
		return report, nil, newError(KindUnexpected, "failed to load outfit selections", err)
	}
	return report, selections, nil
}

func (s *PairingService) record(report *GenerationReport, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.PairingDuration.Observe(d.Seconds())
	s.metrics.PairingCandidates.Add(float64(report.Candidates))
	s.metrics.PairingOutcomes.WithLabelValues("created").Add(float64(report.Created))
	s.metrics.PairingOutcomes.WithLabelValues("skipped").Add(float64(report.Skipped))
	s.metrics.PairingOutcomes.WithLabelValues("conflict").Add(float64(report.Conflicts))
	s.metrics.PairingOutcomes.WithLabelValues("failure").Add(float64(report.Failures))
}

// matchStrength averages the two association confidences. Unknown on
// either side leaves the strength unknown.
func matchStrength(top, bottom *float64) *float64 {
	if top == nil || bottom == nil {
		return nil
	}
	v := (*top + *bottom) / 2
	return &v
}
