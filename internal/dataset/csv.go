package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
)

// Column headers of the profile table.
const (
	ColumnStation   = "Estación"
	ColumnDepth     = "Profundidad"
	ColumnLongitude = "Longitud"
	ColumnLatitude  = "Latitud"
)

// Options controls CSV parsing.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
}

// Load reads the profile table at path.
func Load(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	d, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse reads a profile table. Station, depth, longitude and latitude columns
// are required; variable columns that are missing leave the variable unmeasured.
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := indexHeader(header)
	for _, col := range []string{ColumnStation, ColumnDepth, ColumnLongitude, ColumnLatitude} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var readings []domain.StationReading
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blankRow(row) {
			continue
		}

		reading, err := parseRow(row, colIdx)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		readings = append(readings, reading)
	}

	if len(readings) == 0 {
		return nil, errors.New("no data rows")
	}
	return New(readings)
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	return idx
}

func parseRow(row []string, colIdx map[string]int) (domain.StationReading, error) {
	station := get(row, colIdx, ColumnStation)
	if station == "" {
		return domain.StationReading{}, fmt.Errorf("empty %s", ColumnStation)
	}

	depth, err := requireNumber(row, colIdx, ColumnDepth)
	if err != nil {
		return domain.StationReading{}, err
	}
	lon, err := requireNumber(row, colIdx, ColumnLongitude)
	if err != nil {
		return domain.StationReading{}, err
	}
	lat, err := requireNumber(row, colIdx, ColumnLatitude)
	if err != nil {
		return domain.StationReading{}, err
	}

	values := make(map[domain.Field]float64, len(domain.Fields))
	for _, f := range domain.Fields {
		raw := get(row, colIdx, string(f))
		v, ok, err := parseNumber(raw)
		if err != nil {
			return domain.StationReading{}, fmt.Errorf("column %q: %w", f, err)
		}
		if ok {
			values[f] = v
		}
	}

	return domain.StationReading{
		Station: station,
		Depth:   depth,
		Lon:     lon,
		Lat:     lat,
		Values:  values,
	}, nil
}

func requireNumber(row []string, colIdx map[string]int, col string) (float64, error) {
	v, ok, err := parseNumber(get(row, colIdx, col))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	if !ok {
		return 0, fmt.Errorf("column %q: missing value", col)
	}
	return v, nil
}

// parseNumber parses a cell. Empty and NaN cells are reported as not present.
// A decimal comma is accepted for semicolon-delimited exports.
func parseNumber(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	return v, true, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
