package router

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

const (
	defaultSRID = "EPSG:4326"
	maxCoords   = 10000
)

func ParseCoverRequest(r *http.Request, defaultRes int) (model.CoverRequest, error) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("bbox"))
	if raw == "" {
		return model.CoverRequest{}, errors.New("missing required parameter: bbox")
	}
	bb, err := parseBBOX(raw, true)
	if err != nil {
		return model.CoverRequest{}, fmt.Errorf("invalid bbox: %w", err)
	}
	res := defaultRes
	if v := strings.TrimSpace(q.Get("res")); v != "" {
		res, err = strconv.Atoi(v)
		if err != nil {
			return model.CoverRequest{}, fmt.Errorf("invalid res: %w", err)
		}
	}
	return model.CoverRequest{BBox: bb, Res: res}, nil
}

func ParseExtentRequest(r *http.Request) (model.ExtentRequest, error) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("coords"))
	if raw == "" {
		return model.ExtentRequest{}, errors.New("missing required parameter: coords")
	}
	coords, err := parseCoords(raw)
	if err != nil {
		return model.ExtentRequest{}, fmt.Errorf("invalid coords: %w", err)
	}
	dedupe, err := parseBool(q.Get("dedupe"), true)
	if err != nil {
		return model.ExtentRequest{}, fmt.Errorf("invalid dedupe: %w", err)
	}
	closeRing, err := parseBool(q.Get("close"), false)
	if err != nil {
		return model.ExtentRequest{}, fmt.Errorf("invalid close: %w", err)
	}
	return model.ExtentRequest{Coords: coords, Dedupe: dedupe, Close: closeRing}, nil
}

func ParseRelateRequest(r *http.Request) (model.RelateRequest, error) {
	q := r.URL.Query()
	var out model.RelateRequest
	for _, p := range []struct {
		name string
		dst  *model.BBox
	}{{"a", &out.A}, {"b", &out.B}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			return model.RelateRequest{}, fmt.Errorf("missing required parameter: %s", p.name)
		}
		bb, err := parseBBOX(raw, false)
		if err != nil {
			return model.RelateRequest{}, fmt.Errorf("invalid %s: %w", p.name, err)
		}
		*p.dst = bb
	}
	if out.A.SRID != out.B.SRID {
		return model.RelateRequest{}, fmt.Errorf("a and b must share an SRID (%s vs %s)", out.A.SRID, out.B.SRID)
	}
	return out, nil
}

// parseBBOX reads "x1,y1,x2,y2[,SRID]". Corners may come in any order. With
// geographic set only EPSG:4326 in lon/lat range is accepted.
func parseBBOX(raw string, geographic bool) (model.BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return model.BBox{}, errors.New("expected x1,y1,x2,y2[,EPSG:4326]")
	}
	var v [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		f, err := parseFloat(parts[i])
		if err != nil {
			return model.BBox{}, fmt.Errorf("%s: %w", name, err)
		}
		v[i] = f
	}

	srid := defaultSRID
	if len(parts) == 5 {
		srid = strings.ToUpper(strings.TrimSpace(parts[4]))
	}
	bb := model.BBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], SRID: srid}
	if !geographic {
		return bb, nil
	}

	if srid != defaultSRID {
		return model.BBox{}, fmt.Errorf("only EPSG:4326 is supported (got %q)", srid)
	}
	if !(bb.X1 >= -180 && bb.X1 <= 180 && bb.X2 >= -180 && bb.X2 <= 180) {
		return model.BBox{}, errors.New("longitude must be in [-180,180]")
	}
	if !(bb.Y1 >= -90 && bb.Y1 <= 90 && bb.Y2 >= -90 && bb.Y2 <= 90) {
		return model.BBox{}, errors.New("latitude must be in [-90,90]")
	}
	return bb, nil
}

// parseCoords reads "x,y[,z[,m]];x,y...". An empty z keeps z absent, so
// "x,y,,m" carries only a measure.
func parseCoords(raw string) ([]geom.Coordinate, error) {
	items := strings.Split(strings.Trim(raw, ";"), ";")
	if len(items) > maxCoords {
		return nil, fmt.Errorf("too many coordinates (%d > %d)", len(items), maxCoords)
	}
	out := make([]geom.Coordinate, 0, len(items))
	for i, item := range items {
		parts := strings.Split(item, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("coordinate %d: expected x,y[,z[,m]]", i)
		}
		c, err := geom.ParseCoordinate(parts[0], parts[1], parts[2:]...)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		if !isFinite(c.X) || !isFinite(c.Y) || !isFinite(c.Z.Value) || !isFinite(c.M.Value) {
			return nil, fmt.Errorf("coordinate %d: ordinates must be finite", i)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	if !isFinite(f) {
		return 0, errors.New("must be finite")
	}
	return f, nil
}

func parseBool(v string, def bool) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse bool: %w", err)
	}
	return b, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
