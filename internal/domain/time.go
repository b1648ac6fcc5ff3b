package domain

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidTimeFormat возвращается, когда строка времени не содержит ни одной цифры
var ErrInvalidTimeFormat = errors.New("domain: invalid time format")

// NormalizedTime is the canonical, comparable form of a 12-hour clock time string.
// "09:00 AM", "9:00am" and " 9:00 AM " all normalize to "9:00am".
type NormalizedTime string

// NormalizeTime canonicalizes a human time string for slot comparison:
// lowercases the input, strips all whitespace and strips a single leading
// zero from the hour component.
//
// Raw string equality must never be used for slot matching — display
// formatting differs between code paths (manual zero-padding vs formatted
// clock output), so every comparison goes through this function.
func NormalizeTime(raw string) (NormalizedTime, error) {
	if !strings.ContainsAny(raw, "0123456789") {
		return "", ErrInvalidTimeFormat
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}

	// "09:00am" -> "9:00am"; ровно один ведущий ноль
	return NormalizedTime(strings.TrimPrefix(b.String(), "0")), nil
}
