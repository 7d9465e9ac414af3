// Command genmock writes a deterministic synthetic CTD-O profile table for
// local runs and tests. Eight stations E1..E8 lie inside the default study
// area; values follow smooth horizontal gradients with a per-station offset so
// every depth can be kriged. Only E1 and E2 reach the deepest level, and E8 has
// no fluorescence reading at -30 m.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/ctdo_profiles.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/ctdo-kriging-service/internal/dataset"
	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

type station struct {
	id       string
	lon, lat float64
}

var stations = []station{
	{"E1", -73.6210, -42.6840},
	{"E2", -73.5905, -42.6925},
	{"E3", -73.5620, -42.7010},
	{"E4", -73.5330, -42.7155},
	{"E5", -73.6088, -42.7249},
	{"E6", -73.5750, -42.7380},
	{"E7", -73.5140, -42.7450},
	{"E8", -73.4950, -42.6990},
}

var depths = []float64{-1, -10, -20, -30, -40}

// deepStations is how many stations (in order) were cast to the last depth.
const deepStations = 2

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/ctdo_profiles.csv", "output path for the profile CSV")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := writeCSV(*out); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote profile table: %s", *out)

	// Re-read through the service loader so the fixture is known to be valid.
	d, err := dataset.Load(*out, dataset.Options{})
	if err != nil {
		return fmt.Errorf("reloading %s: %w", *out, err)
	}
	printStats(d)
	return nil
}

func header() []string {
	h := []string{dataset.ColumnStation, dataset.ColumnDepth, dataset.ColumnLongitude, dataset.ColumnLatitude}
	for _, f := range domain.Fields {
		h = append(h, string(f))
	}
	return h
}

func writeCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		return err
	}
	for i, st := range stations {
		for k, z := range depths {
			if k == len(depths)-1 && i >= deepStations {
				continue
			}
			if err := w.Write(row(i, st, z)); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// row models one cast level. dx and dy are offsets from the study-area centre
// in tenths of a degree.
func row(i int, st station, z float64) []string {
	dx := (st.lon + 73.56) * 10
	dy := (st.lat + 42.71) * 10
	w := 0.05 * math.Sin(7*float64(i))

	temp := 11.6 + 0.035*z + 0.4*dx - 0.3*dy + w
	sal := 32.2 - 0.02*z + 0.5*dx + 0.2*dy - w
	sigma := 24.6 - 0.025*z + 0.3*dx + w
	theoretical := 9.2 - 0.06*(temp-11)
	mgl := 8.6 + 0.03*z + 0.6*dy - 0.2*dx + w
	sat := 100 * mgl / theoretical
	aou := theoretical - mgl
	fluo := math.Max(0, 2.5+0.08*z+0.3*dx+0.5*dy)

	values := map[domain.Field]string{
		domain.FieldOxygenMgL:         format(mgl, 3),
		domain.FieldOxygenSaturation:  format(sat, 2),
		domain.FieldOxygenTheoretical: format(theoretical, 3),
		domain.FieldTemperature:       format(temp, 3),
		domain.FieldSalinity:          format(sal, 3),
		domain.FieldSigmaT:            format(sigma, 3),
		domain.FieldAOU:               format(aou, 3),
		domain.FieldFluorescence:      format(fluo, 3),
	}
	if st.id == "E8" && z == -30 {
		values[domain.FieldFluorescence] = ""
	}

	rec := []string{st.id, strconv.FormatFloat(z, 'f', -1, 64), format(st.lon, 4), format(st.lat, 4)}
	for _, f := range domain.Fields {
		rec = append(rec, values[f])
	}
	return rec
}

func format(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func printStats(d *dataset.Dataset) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Readings: %d\n", d.Len())
	fmt.Printf("Stations: %d\n", len(d.Stations()))
	fmt.Printf("Depths: %v\n", d.Depths())

	fmt.Println("\nStations per depth and variable:")
	for _, z := range d.Depths() {
		fmt.Printf("  %6g m:", z)
		for _, v := range domain.Variables() {
			fmt.Printf(" %s=%d", v.Key, len(d.Samples(z, v.Field)))
		}
		fmt.Println()
	}

	fmt.Println("\nRanges:")
	for _, v := range domain.Variables() {
		if lo, hi, ok := d.Range(v.Field); ok {
			fmt.Printf("  %-12s %8.3f .. %8.3f\n", v.Key, lo, hi)
		}
	}
}
