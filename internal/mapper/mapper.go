// Package mapper converts between planar envelopes and H3 cells.
package mapper

import (
	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

type Interface interface {
	CellsForEnvelope(env *geom.Envelope2D, res int) (model.Cells, error)
	// EstimateCells approximates len(CellsForEnvelope(env, res)) without
	// computing the cover.
	EstimateCells(env *geom.Envelope2D, res int) (int, error)
	CellEnvelope(cell string) (*geom.Envelope2D, error)
	Coarsen(cells model.Cells, parentRes int) (model.Cells, error)
	ToParent(cell string, parentRes int) (string, error)
}
