package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return val
	}
	return defaultValue
}

// ParseNonNegativeInt is ParseInt that also falls back to defaultValue for negative input
func ParseNonNegativeInt(s string, defaultValue int) int {
	val := ParseInt(s, defaultValue)
	if val < 0 {
		return defaultValue
	}
	return val
}

// ParsePositiveInt is ParseInt that falls back to defaultValue for zero or negative input
func ParsePositiveInt(s string, defaultValue int) int {
	val := ParseInt(s, defaultValue)
	if val <= 0 {
		return defaultValue
	}
	return val
}

// ParseFloat parses a string to a float64, returning ok=false for empty, malformed, NaN or Inf input
func ParseFloat(s string) (float64, bool) {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}
