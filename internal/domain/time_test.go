package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want NormalizedTime
	}{
		{name: "zero-padded with space", raw: "09:00 AM", want: "9:00am"},
		{name: "already canonical", raw: "9:00am", want: "9:00am"},
		{name: "uppercase no space", raw: "9:00AM", want: "9:00am"},
		{name: "surrounding whitespace", raw: "  9:00 am ", want: "9:00am"},
		{name: "tab between time and meridiem", raw: "9:00\tam", want: "9:00am"},
		{name: "evening slot", raw: "08:30 PM", want: "8:30pm"},
		{name: "no leading zero to strip", raw: "12:00 PM", want: "12:00pm"},
		{name: "single zero stripped only once", raw: "00:30", want: "0:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTime(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Strings that denote the same clock time must share one canonical form.
func TestNormalizeTime_EquivalentRepresentations(t *testing.T) {
	variants := []string{"9:00am", "9:00 AM", "09:00am", "09:00 AM", " 09:00 aM "}

	first, err := NormalizeTime(variants[0])
	require.NoError(t, err)

	for _, v := range variants[1:] {
		got, err := NormalizeTime(v)
		require.NoError(t, err)
		assert.Equal(t, first, got, "variant %q", v)
	}
}

func TestNormalizeTime_NoDigits(t *testing.T) {
	for _, raw := range []string{"", "   ", "noon", "AM"} {
		_, err := NormalizeTime(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, "raw %q", raw)
	}
}
