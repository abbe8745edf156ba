package h3mapper

import (
	"errors"
	"testing"

	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

func TestEstimateCells_TracksPolyfill(t *testing.T) {
	m := New()
	env := geom.NewEnvelope2D(17.95, 18.15, 59.30, 59.40)

	est, err := m.EstimateCells(env, 8)
	if err != nil {
		t.Fatalf("EstimateCells: %v", err)
	}
	cells, err := m.CellsForEnvelope(env, 8)
	if err != nil {
		t.Fatalf("CellsForEnvelope: %v", err)
	}
	if est < len(cells)/2 || est > len(cells)*2 {
		t.Fatalf("estimate %d too far from actual %d", est, len(cells))
	}
}

func TestEstimateCells_GrowsWithResolution(t *testing.T) {
	m := New()
	env := geom.NewEnvelope2D(-10, 10, -10, 10)
	prev := 0
	for res := 0; res <= 15; res++ {
		est, err := m.EstimateCells(env, res)
		if err != nil {
			t.Fatalf("res %d: %v", res, err)
		}
		if est < prev {
			t.Fatalf("res %d estimate %d below res %d estimate %d", res, est, res-1, prev)
		}
		prev = est
	}
	if prev != maxEstimate {
		t.Fatalf("res 15 estimate %d want capped at %d", prev, maxEstimate)
	}
}

func TestEstimateCells_WholeWorldAtRes0(t *testing.T) {
	est, err := New().EstimateCells(geom.NewEnvelope2D(-180, 180, -90, 90), 0)
	if err != nil {
		t.Fatalf("EstimateCells: %v", err)
	}
	// 122 base cells
	if est < 100 || est > 140 {
		t.Fatalf("whole world estimate %d", est)
	}
}

func TestEstimateCells_DegenerateAndInvalid(t *testing.T) {
	m := New()
	point := geom.NewEnvelope2DFromCoordinate(geom.NewCoordinate(18, 59))
	if est, err := m.EstimateCells(point, 15); err != nil || est != 1 {
		t.Fatalf("point estimate=%d err=%v", est, err)
	}
	if _, err := m.EstimateCells(point, 16); err == nil {
		t.Fatalf("expected error for res=16")
	}
	if _, err := m.EstimateCells(geom.NewNullEnvelope2D(), 5); !errors.Is(err, ErrNullEnvelope) {
		t.Fatalf("err=%v want ErrNullEnvelope", err)
	}
}
