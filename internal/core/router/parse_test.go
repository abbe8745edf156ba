package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mohammed-shakir/geomcore/internal/core/model"
)

func TestParseBBOX_Valid(t *testing.T) {
	bb, err := parseBBOX("11.0,55.0,12.0,56.0,EPSG:4326", true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := model.BBox{X1: 11, Y1: 55, X2: 12, Y2: 56, SRID: "EPSG:4326"}
	if bb != want {
		t.Fatalf("got %+v want %+v", bb, want)
	}

	// srid is optional, corners may be swapped
	bb, err = parseBBOX("12,56,11,55", true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if bb.SRID != "EPSG:4326" || !bb.Envelope().Equals(want.Envelope()) {
		t.Fatalf("got %+v", bb)
	}
}

func TestParseBBOX_Invalid(t *testing.T) {
	cases := []struct {
		raw        string
		geographic bool
	}{
		{"11,55,12,56,EPSG:3857", true},
		{"11,55,12", true},
		{"11,55,12,56,EPSG:4326,x", true},
		{"a,55,12,56", true},
		{"190,55,12,56", true},
		{"11,-95,12,56", true},
		{"NaN,0,1,1", false},
		{"0,0,Inf,1", false},
	}
	for _, tc := range cases {
		if _, err := parseBBOX(tc.raw, tc.geographic); err == nil {
			t.Fatalf("expected error for %q", tc.raw)
		}
	}

	// planar boxes accept any finite range and srid
	if _, err := parseBBOX("1000,-1000,2000,5,EPSG:3857", false); err != nil {
		t.Fatalf("planar bbox rejected: %v", err)
	}
}

func TestParseCoords(t *testing.T) {
	cs, err := parseCoords("0,0;1,2,3;4,5,,6;")
	if err != nil {
		t.Fatalf("parseCoords: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("got %d coords", len(cs))
	}
	if cs[0].HasZ() || !cs[1].HasZ() || cs[2].HasZ() || !cs[2].HasM() {
		t.Fatalf("ordinate presence wrong: %+v", cs)
	}

	for _, bad := range []string{"1", "a,b", "1,2,3,4,5", "1,2;;3,4", "1,NaN"} {
		if _, err := parseCoords(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseCoverRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/cover?bbox=11,55,12,56", nil)
	got, err := ParseCoverRequest(req, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Res != 7 {
		t.Fatalf("default res %d want 7", got.Res)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/cover?bbox=11,55,12,56&res=x", nil)
	if _, err := ParseCoverRequest(req, 7); err == nil {
		t.Fatalf("expected error for bad res")
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/cover", nil)
	if _, err := ParseCoverRequest(req, 7); err == nil {
		t.Fatalf("expected error for missing bbox")
	}
}

func TestParseExtentRequest_Flags(t *testing.T) {
	q := url.Values{}
	q.Set("coords", "0,0;1,1")
	req := httptest.NewRequest(http.MethodGet, "/v1/extent?"+q.Encode(), nil)
	got, err := ParseExtentRequest(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Dedupe || got.Close {
		t.Fatalf("defaults dedupe=%v close=%v", got.Dedupe, got.Close)
	}

	q.Set("dedupe", "maybe")
	req = httptest.NewRequest(http.MethodGet, "/v1/extent?"+q.Encode(), nil)
	if _, err := ParseExtentRequest(req); err == nil {
		t.Fatalf("expected error for bad dedupe")
	}
}

func TestParseRelateRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/relate?a=0,0,1,1&b=2,2,3,3,EPSG:3857", nil)
	if _, err := ParseRelateRequest(req); err == nil {
		t.Fatalf("expected SRID mismatch error")
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/relate?a=0,0,1,1", nil)
	if _, err := ParseRelateRequest(req); err == nil {
		t.Fatalf("expected error for missing b")
	}
}
