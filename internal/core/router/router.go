package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/geomcore/internal/core/config"
	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/internal/core/observability"
	"github.com/mohammed-shakir/geomcore/internal/cover"
	mylog "github.com/mohammed-shakir/geomcore/internal/logger"
	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

// Coverer serves H3 covers and cell envelopes; *cover.Service implements it.
type Coverer interface {
	Cover(ctx context.Context, env *geom.Envelope2D, res int) (cover.Result, error)
	CellEnvelope(cell string, parentRes int) (string, *geom.Envelope2D, error)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument records the request under route once fn returns.
func instrument(route, op string, fn func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		r = r.WithContext(mylog.WithOp(r.Context(), op))
		fn(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type coverResponse struct {
	Envelope     string      `json:"envelope"`
	BBox         string      `json:"bbox"`
	RequestedRes int         `json:"requestedRes"`
	Res          int         `json:"res"`
	Count        int         `json:"count"`
	Cells        model.Cells `json:"cells"`
	Coarsened    bool        `json:"coarsened"`
	Source       string      `json:"source"`
}

// HandleCover serves GET /v1/cover?bbox=x1,y1,x2,y2[,EPSG:4326]&res=N.
func HandleCover(logger *slog.Logger, cfg config.Config, svc Coverer) http.HandlerFunc {
	return instrument("/v1/cover", "cover", func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseCoverRequest(r, cfg.H3Res)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Cover(r.Context(), req.BBox.Envelope(), req.Res)
		switch {
		case errors.Is(err, cover.ErrResolution):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, cover.ErrCoverTooLarge):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case err != nil:
			logger.WarnContext(r.Context(), "cover failed", "bbox", req.BBox.String(), "res", req.Res, "err", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, coverResponse{
			Envelope:     res.Envelope.String(),
			BBox:         req.BBox.String(),
			RequestedRes: req.Res,
			Res:          res.Res,
			Count:        len(res.Cells),
			Cells:        res.Cells,
			Coarsened:    res.Coarsened,
			Source:       res.Source,
		})
	})
}

type coordJSON struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	Z *float64 `json:"z,omitempty"`
}

func toCoordJSON(c geom.Coordinate) *coordJSON {
	out := &coordJSON{X: c.X, Y: c.Y}
	if z, ok := c.Z.Get(); ok {
		out.Z = &z
	}
	return out
}

type extentResponse struct {
	Envelope    string     `json:"envelope"`
	Envelope2D  string     `json:"envelope2d"`
	IsNull      bool       `json:"isNull"`
	Is3D        bool       `json:"is3d"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Depth       float64    `json:"depth"`
	Area        float64    `json:"area"`
	Volume      float64    `json:"volume"`
	Centre      *coordJSON `json:"centre"`
	Count       int        `json:"count"`
	Coordinates string     `json:"coordinates"`
}

// HandleExtent serves GET /v1/extent?coords=x,y[,z];...&dedupe=true&close=false.
func HandleExtent(logger *slog.Logger) http.HandlerFunc {
	return instrument("/v1/extent", "extent", func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseExtentRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		list := geom.NewCoordinateList(req.Coords, !req.Dedupe)
		if req.Close {
			list.CloseRing()
		}
		env := list.Envelope()
		observability.IncEnvelopeOp("extent", env.IsNull())
		logger.DebugContext(r.Context(), "extent",
			"in", len(req.Coords), "kept", list.Len(), "envelope", env.String())

		out := extentResponse{
			Envelope:    env.String(),
			Envelope2D:  list.Envelope2D().String(),
			IsNull:      env.IsNull(),
			Is3D:        env.Is3D(),
			Width:       env.Width(),
			Height:      env.Height(),
			Depth:       env.Depth(),
			Area:        env.Area(),
			Volume:      env.Volume(),
			Count:       list.Len(),
			Coordinates: list.String(),
		}
		if c, ok := env.Centre(); ok {
			out.Centre = toCoordJSON(c)
		}
		writeJSON(w, out)
	})
}

type relateResponse struct {
	A            string  `json:"a"`
	B            string  `json:"b"`
	Intersects   bool    `json:"intersects"`
	Contains     bool    `json:"contains"`
	Within       bool    `json:"within"`
	Equals       bool    `json:"equals"`
	Distance     float64 `json:"distance"`
	Intersection string  `json:"intersection"`
	Union        string  `json:"union"`
}

// HandleRelate serves GET /v1/relate?a=x1,y1,x2,y2&b=x1,y1,x2,y2.
func HandleRelate(logger *slog.Logger) http.HandlerFunc {
	return instrument("/v1/relate", "relate", func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseRelateRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a, b := req.A.Envelope(), req.B.Envelope()
		inter := a.Intersection(b)
		union := a.Clone()
		union.ExpandToIncludeEnvelope(b)
		observability.IncEnvelopeOp("relate", inter.IsNull())
		logger.DebugContext(r.Context(), "relate", "a", a.String(), "b", b.String())

		writeJSON(w, relateResponse{
			A:            a.String(),
			B:            b.String(),
			Intersects:   a.IntersectsEnvelope(b),
			Contains:     a.CoversEnvelope(b),
			Within:       b.CoversEnvelope(a),
			Equals:       a.Equals(b),
			Distance:     a.Distance(b),
			Intersection: inter.String(),
			Union:        union.String(),
		})
	})
}

type cellEnvelopeResponse struct {
	Cell     string     `json:"cell"`
	Envelope string     `json:"envelope"`
	BBox     [4]float64 `json:"bbox"`
	Centre   *coordJSON `json:"centre"`
}

// HandleCellEnvelope serves GET /v1/cell/{cell}/envelope[?parent=N].
func HandleCellEnvelope(logger *slog.Logger, svc Coverer) http.HandlerFunc {
	return instrument("/v1/cell/{cell}/envelope", "cell_envelope", func(w http.ResponseWriter, r *http.Request) {
		cell := strings.TrimSpace(chi.URLParam(r, "cell"))
		if cell == "" {
			http.Error(w, "missing cell", http.StatusBadRequest)
			return
		}
		parent := -1
		if v := strings.TrimSpace(r.URL.Query().Get("parent")); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil || p < 0 {
				http.Error(w, "invalid parent resolution", http.StatusBadRequest)
				return
			}
			parent = p
		}
		got, env, err := svc.CellEnvelope(cell, parent)
		if err != nil {
			logger.DebugContext(r.Context(), "cell envelope failed", "cell", cell, "err", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		observability.IncEnvelopeOp("cell_envelope", env.IsNull())
		out := cellEnvelopeResponse{
			Cell:     got,
			Envelope: env.String(),
		}
		if b, ok := model.BBoxFromEnvelope(env, "EPSG:4326"); ok {
			out.BBox = [4]float64{b.X1, b.Y1, b.X2, b.Y2}
		}
		if c, ok := env.Centre(); ok {
			out.Centre = toCoordJSON(c)
		}
		writeJSON(w, out)
	})
}
