package geom

import (
	"math"
	"strconv"
	"strings"
)

// Ordinate is an optional numeric value, used for the z and m ordinates of a
// Coordinate. The zero value is absent.
type Ordinate struct {
	Value float64
	Valid bool
}

// Some returns a present ordinate holding v.
func Some(v float64) Ordinate {
	return Ordinate{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Ordinate) Get() (float64, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or def when absent.
func (o Ordinate) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

// formatFloat renders v in the shortest round-tripping form: plain decimals
// for 1e-6 <= |v| < 1e21, exponent form outside that range with the exponent
// unpadded ("1e+21", "1.5e-7"). Infinities render as "Infinity" and
// "-Infinity", negative zero as "0".
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
