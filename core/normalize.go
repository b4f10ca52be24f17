package core

import (
	"strconv"
	"strings"
)

// CleanString trims whitespace and maps the pandas-style null spellings that
// show up in ad-hoc CSV exports ("nan", "NaN", "none", "null") to the empty
// string.
func CleanString(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// StringOr returns the cleaned value, or def when it is empty.
func StringOr(raw, def string) string {
	if s := CleanString(raw); s != "" {
		return s
	}
	return def
}

// ValidIPv4 reports whether s is a strict dotted quad: exactly four groups
// of 1-3 digits, each in [0,255]. This is deliberately stricter than
// net.ParseIP, which accepts shorthand forms the inventory format rejects.
func ValidIPv4(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		if len(g) == 0 || len(g) > 3 {
			return false
		}
		for _, c := range g {
			if c < '0' || c > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(g)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// CoerceFloat parses a numeric cell, defaulting to zero when the value is
// missing or malformed. Currency prefixes and thousands separators from
// spreadsheet exports are stripped first.
func CoerceFloat(raw string) float64 {
	s := CleanString(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ClampPercent bounds a percentage into [0,100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampMin bounds v to at least min.
func ClampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
