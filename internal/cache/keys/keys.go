// Package keys builds cache keys for envelope covers.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/geomcore/pkg/geom"
)

// CoverKey identifies the H3 cover of env at res. Envelopes with equal
// bounds share a key regardless of how they were built.
func CoverKey(namespace string, env *geom.Envelope2D, res int) string {
	ns := sanitizeNamespace(strings.TrimSpace(namespace))
	canon := canonicalBounds(env)
	sum := xxhash.Sum64String(canon)
	return fmt.Sprintf("%s:cover:r%d:e=%016x", ns, res, sum)
}

// canonicalBounds renders the bounds exactly, with -0 folded into 0. Every
// null envelope renders the same.
func canonicalBounds(env *geom.Envelope2D) string {
	if env.IsNull() {
		return "null"
	}
	vals := [4]float64{env.MinX, env.MinY, env.MaxX, env.MaxY}
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v == 0 {
			v = 0
		}
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func sanitizeNamespace(s string) string {
	if s == "" {
		return "geom"
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-':
			out = r
		default:
			// Any other rune (including non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
