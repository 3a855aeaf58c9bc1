package solgen

import (
	"math"
	"strconv"
	"strings"
)

// FloatToSignedBits reinterprets the IEEE-754 bit pattern of f as a two's
// complement int64. It is not a numeric conversion.
func FloatToSignedBits(f float64) int64 {
	return int64(math.Float64bits(f))
}

// Canonical renders v the way the expected-output file stores it: ints in
// decimal, floats as their signed bit pattern, bools as 0 or 1.
func Canonical(v Value) string {
	switch v.Type {
	case Float:
		return strconv.FormatInt(FloatToSignedBits(v.Float), 10)
	case Bool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return strconv.FormatInt(v.Int, 10)
	}
}

// formatFloat prints the shortest decimal that round-trips f. Solis float
// literals have no exponent form and always carry a fractional part.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
