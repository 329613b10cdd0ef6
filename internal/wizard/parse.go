package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrBadInput marks a validation failure on free-text input. The caller
// re-prompts the same state without mutating the draft.
var ErrBadInput = errors.New("invalid input")

// ParseAmount converts a user-entered monetary string into a
// non-negative float. Everything except digits and separators is
// stripped, a comma counts as a decimal point, and when several points
// remain only the last group is treated as fractional, so both
// "10 000,50" and "10.000.50" parse to 10000.50.
func ParseAmount(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteByte('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("amount %q: %w", raw, ErrBadInput)
	}

	if parts := strings.Split(cleaned, "."); len(parts) > 1 {
		cleaned = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("amount %q: %w", raw, ErrBadInput)
	}
	return v, nil
}

// ParseSavingCoeff parses a saving coefficient and enforces the closed
// interval [0, 1].
func ParseSavingCoeff(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("saving coefficient %q: %w", raw, ErrBadInput)
	}
	return v, nil
}

// NormalizeComment maps the "-" sentinel to an intentionally empty
// comment; any other text is kept verbatim.
func NormalizeComment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "-" {
		return ""
	}
	return trimmed
}

var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseOperationDate parses a free-text operation date in any of the
// accepted layouts.
func ParseOperationDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", raw, ErrBadInput)
}

// FormatOperationDate renders a date the way prompts display it.
func FormatOperationDate(t time.Time) string {
	return t.Format("02.01.2006")
}
