package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
	"github.com/couchcryptid/ctdo-kriging-service/internal/surface"
)

// Catalog is the read-only station data behind the profile endpoints.
type Catalog interface {
	Depths() []float64
	Profile(station string, field domain.Field, minDepth float64) ([]domain.ProfilePoint, error)
	Range(field domain.Field) (lo, hi float64, ok bool)
	StationMean(station string, field domain.Field) (mean float64, ok bool, err error)
}

// API serves the /api/v1 routes consumed by the dashboard.
type API struct {
	catalog      Catalog
	stations     []domain.Station
	grid         domain.Grid
	interpolator surface.Interpolator
	logger       *slog.Logger
}

// NewAPI creates the dashboard API. stations is the list served by
// /api/v1/stations, typically the catalog's stations with place labels.
func NewAPI(catalog Catalog, stations []domain.Station, grid domain.Grid, interpolator surface.Interpolator, logger *slog.Logger) *API {
	return &API{
		catalog:      catalog,
		stations:     stations,
		grid:         grid,
		interpolator: interpolator,
		logger:       logger,
	}
}

func (a *API) register(r *mux.Router) {
	r.HandleFunc("/variables", a.handleVariables).Methods(http.MethodGet)
	r.HandleFunc("/depths", a.handleDepths).Methods(http.MethodGet)
	r.HandleFunc("/grid", a.handleGrid).Methods(http.MethodGet)
	r.HandleFunc("/stations", a.handleStations).Methods(http.MethodGet)
	r.HandleFunc("/stations/{id}/profile", a.handleProfile).Methods(http.MethodGet)
	r.HandleFunc("/surface", a.handleSurface).Methods(http.MethodGet)
}

type errorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type gridResponse struct {
	Northwest domain.Coordinate `json:"northwest"`
	Southeast domain.Coordinate `json:"southeast"`
	Step      float64           `json:"step"`
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	LonLine   []float64         `json:"lon"`
	LatLine   []float64         `json:"lat"`
}

type profileResponse struct {
	Station  string                `json:"station"`
	Variable domain.Variable       `json:"variable"`
	Points   []domain.ProfilePoint `json:"points"`
	Mean     *float64              `json:"mean,omitempty"`
	Range    *domain.Bounds        `json:"range,omitempty"`
}

func (a *API) handleVariables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"variables": domain.Variables()})
}

func (a *API) handleDepths(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"depths": a.catalog.Depths()})
}

func (a *API) handleStations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stations": a.stations})
}

func (a *API) handleGrid(w http.ResponseWriter, _ *http.Request) {
	nw, se := a.grid.Corners()
	writeJSON(w, http.StatusOK, gridResponse{
		Northwest: nw,
		Southeast: se,
		Step:      a.grid.Step(),
		Rows:      a.grid.Rows(),
		Cols:      a.grid.Cols(),
		LonLine:   a.grid.LonLine(),
		LatLine:   a.grid.LatLine(),
	})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	station := mux.Vars(r)["id"]
	q := r.URL.Query()

	v, err := domain.ResolveVariable(q.Get("variable"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	minDepth := math.Inf(-1)
	if s := q.Get("min_depth"); s != "" {
		if minDepth, err = parseFinite(s); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Status: "bad_request", Error: "min_depth: " + err.Error()})
			return
		}
	}

	points, err := a.catalog.Profile(station, v.Field, minDepth)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	resp := profileResponse{Station: station, Variable: v, Points: points}
	if mean, ok, err := a.catalog.StationMean(station, v.Field); err == nil && ok {
		resp.Mean = &mean
	}
	if lo, hi, ok := a.catalog.Range(v.Field); ok {
		resp.Range = &domain.Bounds{Min: lo, Max: hi}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleSurface(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	depth, err := parseFinite(q.Get("depth"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Status: "bad_request", Error: "depth: " + err.Error()})
		return
	}

	s, err := a.interpolator.Interpolate(r.Context(), depth, q.Get("variable"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// writeError maps domain failures onto HTTP statuses. No partial surface is
// ever written alongside an error.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownSelector):
		writeJSON(w, http.StatusBadRequest, errorBody{Status: "unknown_selector", Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownStation):
		writeJSON(w, http.StatusNotFound, errorBody{Status: "not_found", Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientData):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Status: "cannot_interpolate", Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Status: "cancelled", Error: err.Error()})
	default:
		a.logger.Error("request failed", "path", r.URL.Path, "query", r.URL.RawQuery, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Status: "interpolation_failed", Error: err.Error()})
	}
}

func parseFinite(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
