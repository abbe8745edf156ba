package cover

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/mohammed-shakir/geomcore/internal/cache/redisstore"
	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/internal/core/observability"
	h3mapper "github.com/mohammed-shakir/geomcore/internal/mapper/h3"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

// fakeMapper returns n synthetic cells per cover and halves the set on every
// coarsening step. est holds per resolution estimates; missing ones are 0.
type fakeMapper struct {
	n         int
	err       error
	est       map[int]int
	calls     int
	coarsens  int
	estimates int
	filledAt  []int
}

func (f *fakeMapper) CellsForEnvelope(_ *geom.Envelope2D, res int) (model.Cells, error) {
	f.calls++
	f.filledAt = append(f.filledAt, res)
	if f.err != nil {
		return nil, f.err
	}
	out := make(model.Cells, f.n)
	for i := range out {
		out[i] = fmt.Sprintf("r%d-%d", res, i)
	}
	return out, nil
}

func (f *fakeMapper) EstimateCells(_ *geom.Envelope2D, res int) (int, error) {
	f.estimates++
	return f.est[res], nil
}

func (f *fakeMapper) CellEnvelope(cell string) (*geom.Envelope2D, error) {
	if cell == "bad" {
		return nil, errors.New("bad cell")
	}
	return geom.NewEnvelope2D(0, 1, 0, 1), nil
}

func (f *fakeMapper) Coarsen(cells model.Cells, parentRes int) (model.Cells, error) {
	f.coarsens++
	out := make(model.Cells, (len(cells)+1)/2)
	for i := range out {
		out[i] = fmt.Sprintf("r%d-%d", parentRes, i)
	}
	return out, nil
}

func (f *fakeMapper) ToParent(cell string, parentRes int) (string, error) {
	return fmt.Sprintf("%s^%d", cell, parentRes), nil
}

type failingStore struct{ gets, sets int }

func (s *failingStore) GetCover(context.Context, string) (int, model.Cells, bool, error) {
	s.gets++
	return 0, nil, false, errors.New("store down")
}

func (s *failingStore) SetCover(context.Context, string, int, model.Cells, time.Duration) error {
	s.sets++
	return errors.New("store down")
}

func newService(t *testing.T, m *fakeMapper, store Store, cfg Config) *Service {
	t.Helper()
	s, err := New(nil, m, store, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_RequiresMapper(t *testing.T) {
	if _, err := New(nil, nil, nil, Config{}); err == nil {
		t.Fatalf("expected error for nil mapper")
	}
}

func TestCover_ComputesThenServesFromLRU(t *testing.T) {
	m := &fakeMapper{n: 3}
	s := newService(t, m, nil, Config{MaxRes: 15})
	env := geom.NewEnvelope2D(0, 1, 0, 1)

	r1, err := s.Cover(context.Background(), env, 8)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if r1.Source != observability.CoverComputed || r1.Res != 8 || r1.Coarsened || len(r1.Cells) != 3 {
		t.Fatalf("first result %+v", r1)
	}

	// same bounds, different construction order
	r2, err := s.Cover(context.Background(), geom.NewEnvelope2D(1, 0, 1, 0), 8)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if r2.Source != observability.CoverLRUHit || !reflect.DeepEqual(r1.Cells, r2.Cells) {
		t.Fatalf("second result %+v", r2)
	}
	if m.calls != 1 {
		t.Fatalf("mapper called %d times want 1", m.calls)
	}

	r2.Cells[0] = "mutated"
	r3, _ := s.Cover(context.Background(), env, 8)
	if r3.Cells[0] == "mutated" {
		t.Fatalf("result aliases the cached cells")
	}

	s.Purge()
	if _, err := s.Cover(context.Background(), env, 8); err != nil || m.calls != 2 {
		t.Fatalf("after Purge: calls=%d err=%v", m.calls, err)
	}
}

func TestCover_CoarsensOversizedCovers(t *testing.T) {
	m := &fakeMapper{n: 10}
	s := newService(t, m, nil, Config{MinRes: 2, MaxRes: 15, MaxCells: 3})

	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 5)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	// 10 cells at r5, 5 at r4, 3 at r3
	if !r.Coarsened || r.Res != 3 || len(r.Cells) != 3 || m.coarsens != 2 {
		t.Fatalf("got res=%d cells=%d coarsened=%v steps=%d", r.Res, len(r.Cells), r.Coarsened, m.coarsens)
	}
}

func TestCover_CoarseningStopsAtMinRes(t *testing.T) {
	m := &fakeMapper{n: 10}
	s := newService(t, m, nil, Config{MinRes: 4, MaxRes: 15, MaxCells: 1})

	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 5)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if r.Res != 4 || len(r.Cells) != 5 || !r.Coarsened {
		t.Fatalf("got res=%d cells=%d coarsened=%v", r.Res, len(r.Cells), r.Coarsened)
	}
}

func TestCover_StartsAtEstimatedResolution(t *testing.T) {
	m := &fakeMapper{n: 2000, est: map[int]int{8: 120000, 7: 17000, 6: 2500}}
	s := newService(t, m, nil, Config{MaxRes: 15, MaxCells: 4096})

	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(-10, 10, -10, 10), 8)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if !reflect.DeepEqual(m.filledAt, []int{6}) {
		t.Fatalf("polyfilled at %v want only res 6", m.filledAt)
	}
	if r.Res != 6 || !r.Coarsened || len(r.Cells) != 2000 || m.coarsens != 0 {
		t.Fatalf("got res=%d cells=%d coarsened=%v steps=%d", r.Res, len(r.Cells), r.Coarsened, m.coarsens)
	}
}

func TestCover_RefusesWhenMinResTooLarge(t *testing.T) {
	m := &fakeMapper{n: 1, est: map[int]int{5: 900, 4: 200, 3: 50}}
	s := newService(t, m, nil, Config{MinRes: 3, MaxRes: 15, MaxCells: 10})

	if _, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 5); !errors.Is(err, ErrCoverTooLarge) {
		t.Fatalf("err=%v want ErrCoverTooLarge", err)
	}
	if m.calls != 0 || m.estimates != 3 {
		t.Fatalf("polyfills=%d estimates=%d want 0 and 3", m.calls, m.estimates)
	}
}

func TestCover_CancelledContextSkipsCompute(t *testing.T) {
	m := &fakeMapper{n: 3}
	s := newService(t, m, nil, Config{MaxRes: 15})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Cover(ctx, geom.NewEnvelope2D(0, 1, 0, 1), 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if m.calls != 0 {
		t.Fatalf("mapper called %d times after cancel", m.calls)
	}
}

func TestCover_LargeEnvelopeWithH3(t *testing.T) {
	s, err := New(nil, h3mapper.New(), nil, Config{MaxRes: 15, MaxCells: 4096})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(-10, 10, -10, 10), 12)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if r.Res >= 6 || !r.Coarsened || len(r.Cells) == 0 || len(r.Cells) > 4096 {
		t.Fatalf("got res=%d cells=%d coarsened=%v", r.Res, len(r.Cells), r.Coarsened)
	}
}

func TestNew_ValidatesResolutionRange(t *testing.T) {
	for _, cfg := range []Config{
		{MinRes: -1, MaxRes: 5},
		{MinRes: 0, MaxRes: 16},
		{MinRes: 9, MaxRes: 3},
	} {
		if _, err := New(nil, &fakeMapper{}, nil, cfg); err == nil {
			t.Fatalf("expected error for [%d,%d]", cfg.MinRes, cfg.MaxRes)
		}
	}
}

func TestCover_ZeroResolutionRangeIsKept(t *testing.T) {
	s := newService(t, &fakeMapper{n: 1}, nil, Config{MinRes: 0, MaxRes: 0})

	if _, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 12); !errors.Is(err, ErrResolution) {
		t.Fatalf("res 12 err=%v want ErrResolution", err)
	}
	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 0)
	if err != nil || r.Res != 0 {
		t.Fatalf("res 0: res=%d err=%v", r.Res, err)
	}
}

func TestCover_RejectsBadInput(t *testing.T) {
	s := newService(t, &fakeMapper{n: 1}, nil, Config{MinRes: 3, MaxRes: 9})
	ctx := context.Background()

	if _, err := s.Cover(ctx, geom.NewNullEnvelope2D(), 5); !errors.Is(err, ErrNullEnvelope) {
		t.Fatalf("null envelope err=%v", err)
	}
	if _, err := s.Cover(ctx, nil, 5); !errors.Is(err, ErrNullEnvelope) {
		t.Fatalf("nil envelope err=%v", err)
	}
	for _, res := range []int{2, 10} {
		if _, err := s.Cover(ctx, geom.NewEnvelope2D(0, 1, 0, 1), res); !errors.Is(err, ErrResolution) {
			t.Fatalf("res %d err=%v", res, err)
		}
	}
}

func TestCover_MapperErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := newService(t, &fakeMapper{err: boom}, nil, Config{MaxRes: 15})
	if _, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 5); !errors.Is(err, boom) {
		t.Fatalf("err=%v want wrapped boom", err)
	}
}

func TestCover_SharedStoreTier(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rc, err := redisstore.New(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("redisstore.New: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })

	cfg := Config{Namespace: "t", MinRes: 2, MaxRes: 15, MaxCells: 3, TTL: time.Minute}
	env := geom.NewEnvelope2D(10, 11, 50, 51)

	m1 := &fakeMapper{n: 10}
	r1, err := newService(t, m1, rc, cfg).Cover(ctx, env, 5)
	if err != nil {
		t.Fatalf("first instance: %v", err)
	}
	if r1.Source != observability.CoverComputed {
		t.Fatalf("first instance source %q", r1.Source)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("store keys %v want 1", mr.Keys())
	}

	m2 := &fakeMapper{n: 10}
	r2, err := newService(t, m2, rc, cfg).Cover(ctx, env, 5)
	if err != nil {
		t.Fatalf("second instance: %v", err)
	}
	if r2.Source != observability.CoverStoreHit || m2.calls != 0 {
		t.Fatalf("second instance source=%q mapper calls=%d", r2.Source, m2.calls)
	}
	if r2.Res != r1.Res || !r2.Coarsened || !reflect.DeepEqual(r2.Cells, r1.Cells) {
		t.Fatalf("store hit %+v differs from computed %+v", r2, r1)
	}
}

func TestCover_StoreFailureDegradesToCompute(t *testing.T) {
	st := &failingStore{}
	m := &fakeMapper{n: 2}
	s := newService(t, m, st, Config{MaxRes: 15})

	r, err := s.Cover(context.Background(), geom.NewEnvelope2D(0, 1, 0, 1), 5)
	if err != nil {
		t.Fatalf("store failure must not fail the request: %v", err)
	}
	if r.Source != observability.CoverComputed || st.gets != 1 || st.sets != 1 {
		t.Fatalf("source=%q gets=%d sets=%d", r.Source, st.gets, st.sets)
	}
}

func TestCover_WithH3Mapper(t *testing.T) {
	s, err := New(nil, h3mapper.New(), nil, Config{MaxRes: 15, MaxCells: 10000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := geom.NewEnvelope2D(-122.45, -122.40, 37.75, 37.80)
	r, err := s.Cover(context.Background(), env, 7)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if len(r.Cells) == 0 || r.Res != 7 || r.Coarsened {
		t.Fatalf("unexpected cover %+v", r)
	}
	if !r.Envelope.Equals(env) {
		t.Fatalf("result envelope %s want %s", r.Envelope, env)
	}
}

func TestCellEnvelope(t *testing.T) {
	s := newService(t, &fakeMapper{}, nil, Config{MaxRes: 15})

	cell, env, err := s.CellEnvelope("abc", -1)
	if err != nil || cell != "abc" || env.IsNull() {
		t.Fatalf("cell=%q env=%v err=%v", cell, env, err)
	}
	cell, _, err = s.CellEnvelope("abc", 3)
	if err != nil || cell != "abc^3" {
		t.Fatalf("parent cell=%q err=%v", cell, err)
	}
	if _, _, err := s.CellEnvelope("bad", -1); err == nil {
		t.Fatalf("expected mapper error")
	}
}
