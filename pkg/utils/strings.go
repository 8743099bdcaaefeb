package utils

import (
	"strconv"
	"strings"
)

// NormalizeCode trims and lower-cases a promotional code.
// e.g. " EID10 " -> "eid10"
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// ParseBool accepts the usual true/false spellings and falls back otherwise.
func ParseBool(s string, defaultVal bool) bool {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return val
}
