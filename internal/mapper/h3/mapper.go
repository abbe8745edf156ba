package h3mapper

import (
	"errors"
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

var ErrNullEnvelope = errors.New("null envelope has no cover")

type Mapper struct{}

func New() *Mapper { return &Mapper{} }

// CellsForEnvelope polyfills env (x=lng, y=lat, degrees). An envelope smaller
// than a cell yields the single cell containing its centre.
func (m *Mapper) CellsForEnvelope(env *geom.Envelope2D, res int) (model.Cells, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	if env.IsNull() {
		return nil, ErrNullEnvelope
	}

	cells := model.Cells{}
	if env.Width() > 0 && env.Height() > 0 {
		outer := h3.GeoLoop{
			{Lat: env.MinY, Lng: env.MinX},
			{Lat: env.MinY, Lng: env.MaxX},
			{Lat: env.MaxY, Lng: env.MaxX},
			{Lat: env.MaxY, Lng: env.MinX},
		}
		var err error
		cells, err = polyfillOne(outer, nil, res)
		if err != nil {
			return nil, err
		}
	}
	if len(cells) > 0 {
		return cells, nil
	}

	centre, _ := env.Centre()
	c, err := h3.LatLngToCell(h3.LatLng{Lat: centre.Y, Lng: centre.X}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 centre cell: %w", err)
	}
	return model.Cells{c.String()}, nil
}

// CellEnvelope folds the boundary vertices of cell into a planar envelope.
func (m *Mapper) CellEnvelope(cell string) (*geom.Envelope2D, error) {
	c, err := parseCell(cell)
	if err != nil {
		return nil, err
	}
	b, err := c.Boundary()
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	if len(b) < 3 {
		return nil, fmt.Errorf("degenerate boundary for %s", cell)
	}
	env := geom.NewNullEnvelope2D()
	for _, ll := range b {
		env.ExpandToIncludeValues(ll.Lng, ll.Lat)
	}
	return env, nil
}

// --- helpers ---

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

func parseCell(cell string) (h3.Cell, error) {
	var c h3.Cell
	if err := c.UnmarshalText([]byte(cell)); err != nil {
		return 0, fmt.Errorf("parse cell: %w", err)
	}
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid h3 cell %q", cell)
	}
	return c, nil
}

// polyfillOne computes unique cells and returns them sorted for determinism.
func polyfillOne(outer h3.GeoLoop, holes []h3.GeoLoop, res int) (model.Cells, error) {
	poly := h3.GeoPolygon{
		GeoLoop: outer,
		Holes:   holes,
	}

	indexes, err := h3.PolygonToCells(poly, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	return uniqueSorted(indexes), nil
}

func uniqueSorted(cells []h3.Cell) model.Cells {
	out := make([]string, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, idx := range cells {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
