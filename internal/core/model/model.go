// Package model defines core request types shared across the service.
package model

import (
	"fmt"

	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

type BBox struct {
	X1, Y1 float64
	X2, Y2 float64
	SRID   string
}

// String representation matching wfs/wms bbox format
func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%s", b.X1, b.Y1, b.X2, b.Y2, b.SRID)
}

// Envelope returns the planar envelope spanned by the bbox corners.
func (b BBox) Envelope() *geom.Envelope2D {
	return geom.NewEnvelope2D(b.X1, b.X2, b.Y1, b.Y2)
}

// BBoxFromEnvelope is the inverse of BBox.Envelope. A null envelope has no
// bbox.
func BBoxFromEnvelope(env *geom.Envelope2D, srid string) (BBox, bool) {
	if env.IsNull() {
		return BBox{}, false
	}
	return BBox{X1: env.MinX, Y1: env.MinY, X2: env.MaxX, Y2: env.MaxY, SRID: srid}, true
}

type Cells []string

// CoverRequest asks for the H3 cells covering a bbox at a resolution.
type CoverRequest struct {
	BBox BBox
	Res  int
}

// ExtentRequest is a coordinate run to be folded into an envelope.
type ExtentRequest struct {
	Coords []geom.Coordinate
	Dedupe bool
	Close  bool
}

// RelateRequest holds the two boxes compared by /v1/relate.
type RelateRequest struct {
	A, B BBox
}
