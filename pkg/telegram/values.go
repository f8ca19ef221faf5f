package telegram

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a signed 32-bit integer. Values written as floats are
// rounded half away from zero.
func ParseInt(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(v), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	r := math.Round(f)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, false
	}
	return int32(r), true
}

// ParseUint parses an unsigned 32-bit integer.
func ParseUint(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ParseFloat parses a 32-bit float. NaN and infinities are rejected.
func ParseFloat(s string) (float32, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return float32(f), true
}

// ParseBool reports true for "true" in any case and false for any other
// non-empty value.
func ParseBool(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	return strings.EqualFold(s, "true"), true
}

// percent converts a factor to a rounded percentage.
func percent(f float32) int {
	return int(f*100 + 0.5)
}
