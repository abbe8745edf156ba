// Package cover answers "which H3 cells cover this envelope" with a two tier
// cache in front of the mapper: an in-process LRU and an optional shared
// store.
package cover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/geomcore/internal/cache/keys"
	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/internal/core/observability"
	"github.com/mohammed-shakir/geomcore/internal/logger"
	"github.com/mohammed-shakir/geomcore/internal/mapper"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

var (
	ErrNullEnvelope  = errors.New("null envelope has no cover")
	ErrResolution    = errors.New("resolution out of range")
	// ErrCoverTooLarge is returned when even MinRes would exceed MaxCells.
	ErrCoverTooLarge = errors.New("cover exceeds max cells at min resolution")
)

// Store is the shared tier. redisstore.Client satisfies it.
type Store interface {
	GetCover(ctx context.Context, key string) (res int, cells model.Cells, ok bool, err error)
	SetCover(ctx context.Context, key string, res int, cells model.Cells, ttl time.Duration) error
}

type Config struct {
	Namespace string
	MinRes    int
	MaxRes    int
	MaxCells  int
	LRUSize   int
	TTL       time.Duration
	OpTimeout time.Duration
}

type Result struct {
	Envelope *geom.Envelope2D
	// Res is the resolution of Cells; below the requested one when Coarsened.
	Res       int
	Cells     model.Cells
	Coarsened bool
	// Source is one of observability.CoverLRUHit, CoverStoreHit, CoverComputed.
	Source string
}

type entry struct {
	res       int
	cells     model.Cells
	coarsened bool
}

type Service struct {
	log    *slog.Logger
	mapper mapper.Interface
	store  Store
	local  *lru.Cache[string, entry]
	cfg    Config
}

// New builds a Service. store may be nil, in which case only the local LRU is
// used.
func New(log *slog.Logger, m mapper.Interface, store Store, cfg Config) (*Service, error) {
	if m == nil {
		return nil, errors.New("cover: nil mapper")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.LRUSize <= 0 {
		cfg.LRUSize = 1024
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = 4096
	}
	if cfg.MinRes < 0 || cfg.MaxRes > 15 || cfg.MinRes > cfg.MaxRes {
		return nil, fmt.Errorf("cover: resolution range [%d,%d] not within [0,15]", cfg.MinRes, cfg.MaxRes)
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 250 * time.Millisecond
	}
	local, err := lru.New[string, entry](cfg.LRUSize)
	if err != nil {
		return nil, fmt.Errorf("cover lru: %w", err)
	}
	return &Service{
		log:    log.With("component", "cover"),
		mapper: m,
		store:  store,
		local:  local,
		cfg:    cfg,
	}, nil
}

// Cover returns the cells covering env at res. Covers estimated to exceed
// MaxCells are computed at the finest coarser resolution that fits; a computed
// cover still over MaxCells is replaced by its parents, one resolution at a
// time, until it fits or MinRes is reached.
func (s *Service) Cover(ctx context.Context, env *geom.Envelope2D, res int) (Result, error) {
	if env == nil || env.IsNull() {
		return Result{}, ErrNullEnvelope
	}
	if res < s.cfg.MinRes || res > s.cfg.MaxRes {
		return Result{}, fmt.Errorf("%w: %d not in [%d,%d]", ErrResolution, res, s.cfg.MinRes, s.cfg.MaxRes)
	}
	ctx = logger.WithOp(ctx, "cover")
	key := keys.CoverKey(s.cfg.Namespace, env, res)

	if e, ok := s.local.Get(key); ok {
		return s.result(env, e, observability.CoverLRUHit), nil
	}

	if e, ok := s.fromStore(ctx, key, res); ok {
		s.local.Add(key, e)
		return s.result(env, e, observability.CoverStoreHit), nil
	}

	e, err := s.compute(ctx, env, res)
	if err != nil {
		return Result{}, err
	}
	s.local.Add(key, e)
	s.toStore(ctx, key, e)
	return s.result(env, e, observability.CoverComputed), nil
}

func (s *Service) result(env *geom.Envelope2D, e entry, source string) Result {
	observability.IncCoverResult(source)
	return Result{
		Envelope:  env.Clone(),
		Res:       e.res,
		Cells:     append(model.Cells(nil), e.cells...),
		Coarsened: e.coarsened,
		Source:    source,
	}
}

func (s *Service) compute(ctx context.Context, env *geom.Envelope2D, res int) (entry, error) {
	start, err := s.startRes(env, res)
	if err != nil {
		return entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return entry{}, err
	}
	cells, err := s.mapper.CellsForEnvelope(env, start)
	if err != nil {
		return entry{}, fmt.Errorf("cover at res %d: %w", start, err)
	}
	e := entry{res: start, cells: cells, coarsened: start < res}
	for len(e.cells) > s.cfg.MaxCells && e.res > s.cfg.MinRes {
		if err := ctx.Err(); err != nil {
			return entry{}, err
		}
		e.res--
		e.cells, err = s.mapper.Coarsen(e.cells, e.res)
		if err != nil {
			return entry{}, fmt.Errorf("coarsen to res %d: %w", e.res, err)
		}
		e.coarsened = true
	}
	if e.coarsened {
		observability.IncCoverCoarsened()
		s.log.DebugContext(ctx, "cover coarsened",
			"requested_res", res, "start_res", start, "res", e.res, "cells", len(e.cells))
	}
	observability.ObserveCoverCells(len(e.cells))
	return e, nil
}

// startRes walks down from res to the finest resolution whose estimated cover
// fits in MaxCells.
func (s *Service) startRes(env *geom.Envelope2D, res int) (int, error) {
	for r := res; r >= s.cfg.MinRes; r-- {
		n, err := s.mapper.EstimateCells(env, r)
		if err != nil {
			return 0, fmt.Errorf("estimate at res %d: %w", r, err)
		}
		if n <= s.cfg.MaxCells {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %d cells", ErrCoverTooLarge, s.cfg.MaxCells)
}

// fromStore reads the shared tier. Failures are logged and treated as a miss.
func (s *Service) fromStore(ctx context.Context, key string, requested int) (entry, bool) {
	if s.store == nil {
		return entry{}, false
	}
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()
	res, cells, ok, err := s.store.GetCover(opCtx, key)
	if err != nil {
		s.log.WarnContext(ctx, "cover store get failed", "key", key, "err", err)
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}
	return entry{res: res, cells: cells, coarsened: res < requested}, true
}

func (s *Service) toStore(ctx context.Context, key string, e entry) {
	if s.store == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()
	if err := s.store.SetCover(opCtx, key, e.res, e.cells, s.cfg.TTL); err != nil {
		s.log.WarnContext(ctx, "cover store set failed", "key", key, "err", err)
	}
}

// CellEnvelope returns the planar envelope of cell, or of its ancestor at
// parentRes when parentRes >= 0.
func (s *Service) CellEnvelope(cell string, parentRes int) (string, *geom.Envelope2D, error) {
	if parentRes >= 0 {
		p, err := s.mapper.ToParent(cell, parentRes)
		if err != nil {
			return "", nil, err
		}
		cell = p
	}
	env, err := s.mapper.CellEnvelope(cell)
	if err != nil {
		return "", nil, err
	}
	return cell, env, nil
}

// Purge drops every locally cached cover.
func (s *Service) Purge() {
	s.local.Purge()
}
