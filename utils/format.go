package utils

import (
	"strings"
	"time"
)

const displayDate = "Jan 2, 2006"

// FormatDate renders an RFC3339 timestamp as "Jan 2, 2006". Unparseable input is returned as is.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(displayDate)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// MaskSecret keeps the last four characters: "sk-abcdef1234" -> "••••1234".
func MaskSecret(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return "••••" + string(r[len(r)-4:])
}
