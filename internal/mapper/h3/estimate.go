package h3mapper

import (
	"fmt"
	"math"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

// earthRadiusKm is the mean radius h3 uses for its area tables.
const earthRadiusKm = 6371.007180918475

// maxEstimate caps estimates so callers can compare without overflow.
const maxEstimate = math.MaxInt32

// EstimateCells divides the spherical area of env by the average cell area at
// res. Degenerate envelopes count as one cell.
func (m *Mapper) EstimateCells(env *geom.Envelope2D, res int) (int, error) {
	if err := validateRes(res); err != nil {
		return 0, err
	}
	if env.IsNull() {
		return 0, ErrNullEnvelope
	}
	cellKm2, err := h3.HexagonAreaAvgKm2(res)
	if err != nil {
		return 0, fmt.Errorf("h3 cell area: %w", err)
	}
	est := math.Ceil(envelopeAreaKm2(env) / cellKm2)
	switch {
	case est < 1 || math.IsNaN(est):
		return 1, nil
	case est > maxEstimate:
		return maxEstimate, nil
	}
	return int(est), nil
}

// envelopeAreaKm2 is the area of the lat/lng rectangle on the sphere:
// R² · Δλ · |sin φ2 − sin φ1|.
func envelopeAreaKm2(env *geom.Envelope2D) float64 {
	lat1 := clamp(env.MinY, -90, 90) * math.Pi / 180
	lat2 := clamp(env.MaxY, -90, 90) * math.Pi / 180
	dlng := math.Min(env.Width(), 360) * math.Pi / 180
	return earthRadiusKm * earthRadiusKm * dlng * math.Abs(math.Sin(lat2)-math.Sin(lat1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
