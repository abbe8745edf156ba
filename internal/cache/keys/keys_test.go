package keys

import (
	"math"
	"regexp"
	"testing"
	"unicode"

	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

func TestDeterminism_SameBoundsSameKey(t *testing.T) {
	a := geom.NewEnvelope2D(17.95, 18.15, 59.30, 59.40)
	b := geom.NewEnvelope2D(18.15, 17.95, 59.40, 59.30)
	c := geom.NewEnvelope2DFromCoordinates(geom.NewCoordinate(17.95, 59.40), geom.NewCoordinate(18.15, 59.30))

	k1 := CoverKey("demo", a, 8)
	if k2 := CoverKey("demo", b, 8); k1 != k2 {
		t.Fatalf("determinism failed:\n k1=%s\n k2=%s", k1, k2)
	}
	if k3 := CoverKey(" demo ", c, 8); k1 != k3 {
		t.Fatalf("construction path changed the key:\n k1=%s\n k3=%s", k1, k3)
	}
}

func TestDifference_BoundsAndResolution(t *testing.T) {
	a := geom.NewEnvelope2D(0, 1, 0, 1)
	b := geom.NewEnvelope2D(0, 1, 0, 1.0000001)
	if CoverKey("demo", a, 8) == CoverKey("demo", b, 8) {
		t.Fatalf("different bounds must produce different keys")
	}
	if CoverKey("demo", a, 8) == CoverKey("demo", a, 9) {
		t.Fatalf("different resolutions must produce different keys")
	}
	if CoverKey("demo", a, 8) == CoverKey("other", a, 8) {
		t.Fatalf("different namespaces must produce different keys")
	}
}

func TestNegativeZeroAndNull(t *testing.T) {
	negZero := math.Copysign(0, -1)
	a := geom.NewEnvelope2D(0, 1, 0, 1)
	b := geom.NewEnvelope2D(negZero, 1, negZero, 1)
	if CoverKey("demo", a, 8) != CoverKey("demo", b, 8) {
		t.Fatalf("-0 and 0 must share a key")
	}

	n1 := geom.NewNullEnvelope2D()
	n2 := &geom.Envelope2D{MinX: 5, MaxX: 1, MinY: 3, MaxY: 9}
	if CoverKey("demo", n1, 8) != CoverKey("demo", n2, 8) {
		t.Fatalf("all null envelopes must share a key")
	}
}

func TestKeyShape_ASCIIAndHashSuffix(t *testing.T) {
	k := CoverKey("Göteborg tiles", geom.NewEnvelope2D(11.9, 12.0, 57.6, 57.8), 7)
	for _, r := range k {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune leaked into key: %q in %s", r, k)
		}
	}
	if !regexp.MustCompile(`^[A-Za-z0-9:_\-]+:cover:r7:e=[0-9a-f]{16}$`).MatchString(k) {
		t.Fatalf("unexpected key shape: %s", k)
	}
	if got := CoverKey("", geom.NewEnvelope2D(0, 1, 0, 1), 1); !regexp.MustCompile(`^geom:cover:`).MatchString(got) {
		t.Fatalf("empty namespace must default to geom: %s", got)
	}
}
