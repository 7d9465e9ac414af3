// Command validate checks a CTD-O profile table before it is served: the
// header carries every expected column, (station, depth) rows are unique with
// fixed station positions, stations sit inside the study area, and every depth
// with enough stations can actually be kriged over the configured grid.
//
// Grid and delimiter settings come from the same environment variables as the
// service (GRID_NORTHWEST, GRID_SOUTHEAST, GRID_STEP, DATASET_DELIMITER).
//
// Usage:
//
//	go run ./cmd/validate -csv data/mock/ctdo_profiles.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/ctdo-kriging-service/internal/config"
	"github.com/couchcryptid/ctdo-kriging-service/internal/dataset"
	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
	"github.com/couchcryptid/ctdo-kriging-service/internal/observability"
	"github.com/couchcryptid/ctdo-kriging-service/internal/surface"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the CTD-O profile CSV (defaults to DATASET_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *csvPath != "" {
		cfg.DatasetPath = *csvPath
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	fmt.Println("=== CTD-O Dataset Validation ===")
	fmt.Printf("File: %s\n\n", cfg.DatasetPath)

	schema := validateSchema(cfg)
	phases := []*phase{schema}

	d, load := validateLoad(cfg)
	phases = append(phases, load)

	grid, gridErr := domain.BuildGrid(cfg.GridNorthwest, cfg.GridSoutheast, cfg.GridStep)
	if d != nil {
		phases = append(phases,
			validateStudyArea(d, cfg),
			validateCoverage(d),
		)
		if gridErr != nil {
			p := &phase{name: "Phase 5: Interpolation"}
			p.errorf("grid: %v", gridErr)
			phases = append(phases, p)
		} else {
			phases = append(phases, validateInterpolation(d, grid, cfg))
		}
	}

	return report(d, phases)
}

func report(d *dataset.Dataset, phases []*phase) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	if d != nil {
		fmt.Println()
		fmt.Printf("Records: %d readings, %d stations, %d depths\n", d.Len(), len(d.Stations()), len(d.Depths()))
	}

	for _, p := range phases {
		if len(p.notes) > 0 {
			fmt.Printf("\n--- %s (notes) ---\n", p.name)
			for _, n := range p.notes {
				fmt.Printf("  Note: %s\n", n)
			}
		}
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Schema ──

func validateSchema(cfg *config.Config) *phase {
	p := &phase{name: "Phase 1: Schema (header columns)"}

	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = cfg.DatasetDelimiter
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		p.errorf("file is empty")
		return p
	}
	if err != nil {
		p.errorf("read header: %v", err)
		return p
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = true
	}
	for _, col := range []string{dataset.ColumnStation, dataset.ColumnDepth, dataset.ColumnLongitude, dataset.ColumnLatitude} {
		if !present[col] {
			p.errorf("missing required column %q", col)
		}
	}
	for _, field := range domain.Fields {
		if !present[string(field)] {
			p.errorf("missing variable column %q", field)
		}
	}
	return p
}

// ── Phase 2: Load ──
// Parsing enforces unique (station, depth) rows and fixed station positions.

func validateLoad(cfg *config.Config) (*dataset.Dataset, *phase) {
	p := &phase{name: "Phase 2: Load (uniqueness, positions)"}

	d, err := dataset.Load(cfg.DatasetPath, dataset.Options{Delimiter: cfg.DatasetDelimiter})
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	return d, p
}

// ── Phase 3: Study Area ──

func validateStudyArea(d *dataset.Dataset, cfg *config.Config) *phase {
	p := &phase{name: "Phase 3: Study Area (stations in grid box)"}

	nw, se := cfg.GridNorthwest, cfg.GridSoutheast
	minLon, maxLon := min(nw.Lon, se.Lon), max(nw.Lon, se.Lon)
	minLat, maxLat := min(nw.Lat, se.Lat), max(nw.Lat, se.Lat)

	for _, st := range d.Stations() {
		if st.Lon < minLon || st.Lon > maxLon || st.Lat < minLat || st.Lat > maxLat {
			p.errorf("station %s at (%g, %g) lies outside the grid box", st.ID, st.Lon, st.Lat)
		}
	}
	return p
}

// ── Phase 4: Coverage ──
// A depth with fewer than MinKrigingSamples stations is reported, not failed:
// the dashboard shows it as "cannot interpolate". A variable with no krigeable
// depth at all is a failure.

func validateCoverage(d *dataset.Dataset) *phase {
	p := &phase{name: "Phase 4: Coverage (stations per depth)"}

	for _, v := range domain.Variables() {
		krigeable := 0
		for _, z := range d.Depths() {
			n := len(d.Samples(z, v.Field))
			if n >= domain.MinKrigingSamples {
				krigeable++
				continue
			}
			p.notef("%s at %g m: %d station(s), cannot interpolate", v.Key, z, n)
		}
		if krigeable == 0 {
			p.errorf("%s: no depth has %d or more stations", v.Key, domain.MinKrigingSamples)
		}
	}
	return p
}

// ── Phase 5: Interpolation ──

func validateInterpolation(d *dataset.Dataset, grid domain.Grid, cfg *config.Config) *phase {
	p := &phase{name: "Phase 5: Interpolation (every krigeable depth)"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := surface.New(d, grid, surface.Options{Lags: cfg.VariogramLags, BoundsPolicy: cfg.BoundsPolicy},
		logger, observability.NewMetricsForTesting())

	ctx := context.Background()
	surfaces := 0
	for _, v := range domain.Variables() {
		for _, z := range d.Depths() {
			if len(d.Samples(z, v.Field)) < domain.MinKrigingSamples {
				continue
			}
			s, err := engine.Interpolate(ctx, z, v.Key)
			if err != nil {
				p.errorf("%s at %g m: %v", v.Key, z, err)
				continue
			}
			surfaces++
			if s.Model.Slope == 0 {
				p.notef("%s at %g m: flat variogram (nugget only)", v.Key, z)
			}
		}
	}
	p.notef("%d surfaces of %d x %d points", surfaces, grid.Rows(), grid.Cols())
	return p
}
