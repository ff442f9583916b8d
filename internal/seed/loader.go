// Package seed loads the curated palette and its compatibility table from
// CSV files.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/models/entities"
	"palette-wardrobe/stylist/internal/models/gorm"
	"palette-wardrobe/stylist/internal/services"
)

var colourHeader = []string{"id", "name", "type", "r", "g", "b"}
var pairHeader = []string{"top_colour", "bottom_colour"}

// ColourWriter stores palette rows.
type ColourWriter interface {
	All(ctx context.Context) ([]gorm.Colour, error)
	UpsertBatch(ctx context.Context, colours []gorm.Colour) error
}

// PairWriter replaces the compatibility table.
type PairWriter interface {
	ReplaceAll(ctx context.Context, pairs []entities.ColourPair) (int, error)
}

// RowError is one rejected CSV row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Report says what a load kept and what it skipped.
type Report struct {
	Loaded  int
	Skipped []RowError
}

// Loader imports colours.csv and compatible_pairs.csv.
type Loader struct {
	colours ColourWriter
	pairs   PairWriter
}

func NewLoader(colours ColourWriter, pairs PairWriter) *Loader {
	return &Loader{colours: colours, pairs: pairs}
}

// LoadColours reads id,name,type,r,g,b rows and upserts the valid ones.
// Rows with channels outside 0..255 or an unknown type are skipped.
func (l *Loader) LoadColours(ctx context.Context, reader io.Reader) (*Report, error) {
	rows, err := readCSV(reader, colourHeader)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	colours := make([]gorm.Colour, 0, len(rows))
	seen := make(map[uint]int)
	for i, row := range rows {
		line := i + 2
		colour, reason := parseColour(row)
		if reason != "" {
			report.Skipped = append(report.Skipped, RowError{Line: line, Reason: reason})
			continue
		}
		if prev, ok := seen[colour.ID]; ok {
			report.Skipped = append(report.Skipped, RowError{Line: line, Reason: fmt.Sprintf("duplicate id %d (first on line %d)", colour.ID, prev)})
			continue
		}
		seen[colour.ID] = line
		colours = append(colours, colour)
	}

	for _, s := range report.Skipped {
		logging.Warn("Skipping colour row", "line", s.Line, "reason", s.Reason)
	}
	if len(colours) == 0 {
		return report, errors.New("no valid colours found after parsing")
	}

	if err := l.colours.UpsertBatch(ctx, colours); err != nil {
		return report, fmt.Errorf("failed to store colours: %w", err)
	}
	report.Loaded = len(colours)

	logging.Info("Loaded palette colours", "loaded", report.Loaded, "skipped", len(report.Skipped))
	return report, nil
}

// LoadCompatiblePairs reads top_colour,bottom_colour rows of colour ids and
// replaces the compatibility table. Rows naming unknown colours or breaking
// applicability are skipped. Repeated pairs are kept as separate rows.
func (l *Loader) LoadCompatiblePairs(ctx context.Context, reader io.Reader) (*Report, error) {
	rows, err := readCSV(reader, pairHeader)
	if err != nil {
		return nil, err
	}

	known, err := l.colours.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load colours: %w", err)
	}
	byID := make(map[uint]gorm.Colour, len(known))
	for _, c := range known {
		byID[c.ID] = c
	}

	report := &Report{}
	pairs := make([]entities.ColourPair, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		skip := func(reason string) {
			report.Skipped = append(report.Skipped, RowError{Line: line, Reason: reason})
		}

		topID, err := parseID(row[0])
		if err != nil {
			skip("top_colour: " + err.Error())
			continue
		}
		bottomID, err := parseID(row[1])
		if err != nil {
			skip("bottom_colour: " + err.Error())
			continue
		}
		top, ok := byID[topID]
		if !ok {
			skip(fmt.Sprintf("unknown top colour %d", topID))
			continue
		}
		bottom, ok := byID[bottomID]
		if !ok {
			skip(fmt.Sprintf("unknown bottom colour %d", bottomID))
			continue
		}
		if err := services.ValidateCompatiblePair(top, bottom); err != nil {
			skip(err.Error())
			continue
		}
		pairs = append(pairs, entities.ColourPair{TopColourID: topID, BottomColourID: bottomID})
	}

	for _, s := range report.Skipped {
		logging.Warn("Skipping compatible pair row", "line", s.Line, "reason", s.Reason)
	}

	loaded, err := l.pairs.ReplaceAll(ctx, pairs)
	if err != nil {
		return report, fmt.Errorf("failed to store compatible pairs: %w", err)
	}
	report.Loaded = loaded

	logging.Info("Loaded compatible pairs", "loaded", report.Loaded, "skipped", len(report.Skipped))
	return report, nil
}

func readCSV(reader io.Reader, header []string) ([][]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = len(header)
	r.TrimLeadingSpace = true

	first, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(first[i], "\ufeff")), name) {
			return nil, fmt.Errorf("unexpected csv header %v, want %v", first, header)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func parseColour(row []string) (gorm.Colour, string) {
	id, err := parseID(row[0])
	if err != nil {
		return gorm.Colour{}, "id: " + err.Error()
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return gorm.Colour{}, "name is empty"
	}
	applicability, err := entities.ParseApplicability(row[2])
	if err != nil {
		return gorm.Colour{}, err.Error()
	}

	var channels [3]uint8
	for i, raw := range row[3:6] {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v < 0 || v > 255 {
			return gorm.Colour{}, fmt.Sprintf("invalid RGB value %q", raw)
		}
		channels[i] = uint8(v)
	}

	return gorm.Colour{
		ID:            id,
		Name:          name,
		R:             channels[0],
		G:             channels[1],
		B:             channels[2],
		Applicability: applicability,
	}, ""
}

func parseID(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(v), nil
}
