package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(hour, minute int) time.Time {
	return time.Date(2025, 10, 15, hour, minute, 0, 0, time.UTC)
}

func TestDayStart_FutureDayOpensAtTen(t *testing.T) {
	now := date(18, 45)
	tomorrow := now.AddDate(0, 0, 1)

	start := DayStart(tomorrow, now)

	assert.Equal(t, 10, start.Hour())
	assert.Equal(t, 0, start.Minute())
}

func TestDayStart_SameDayCutoff(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantHour   int
		wantMinute int
	}{
		{name: "morning before opening", now: date(8, 15), wantHour: 10, wantMinute: 0},
		{name: "morning, minutes past half hour", now: date(9, 45), wantHour: 10, wantMinute: 30},
		{name: "exactly at opening hour", now: date(10, 0), wantHour: 10, wantMinute: 0},
		{name: "afternoon on the hour", now: date(14, 0), wantHour: 15, wantMinute: 0},
		{name: "afternoon past half hour", now: date(14, 31), wantHour: 15, wantMinute: 30},
		{name: "afternoon exactly half hour", now: date(14, 30), wantHour: 15, wantMinute: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := DayStart(tt.now, tt.now)
			assert.Equal(t, tt.wantHour, start.Hour())
			assert.Equal(t, tt.wantMinute, start.Minute())
		})
	}
}

func TestCandidateSlots_FullDay(t *testing.T) {
	now := date(12, 0)
	tomorrow := now.AddDate(0, 0, 1)

	slots := CandidateSlots(tomorrow, now)

	// 10:00 .. 20:30 с шагом 30 минут = 22 слота
	require.Len(t, slots, 22)
	assert.Equal(t, "10:00 AM", slots[0].Time)
	assert.Equal(t, NormalizedTime("10:00am"), slots[0].Normalized)
	assert.Equal(t, "08:30 PM", slots[len(slots)-1].Time)
	assert.Equal(t, NormalizedTime("8:30pm"), slots[len(slots)-1].Normalized)
}

func TestCandidateSlots_NeverOutsideBusinessHours(t *testing.T) {
	now := date(7, 12)

	for i := 0; i < BookingWindowDays; i++ {
		day := now.AddDate(0, 0, i)
		for _, slot := range CandidateSlots(day, now) {
			parsed, err := time.Parse(TimeDisplayFormat, slot.Time)
			require.NoError(t, err)
			minutes := parsed.Hour()*60 + parsed.Minute()
			assert.GreaterOrEqual(t, minutes, BusinessDayStartHour*60, "slot %s", slot.Time)
			assert.Less(t, minutes, BusinessDayEndHour*60, "slot %s", slot.Time)
		}
	}
}

func TestCandidateSlots_SameDayRespectsCutoff(t *testing.T) {
	now := date(13, 40)

	slots := CandidateSlots(now, now)

	require.NotEmpty(t, slots)
	// cutoff: 14:30 — час вперёд, минуты > 30 округляются до 30
	assert.Equal(t, "02:30 PM", slots[0].Time)
}

// Reference instant at 20:45: today's cutoff (21:30) exceeds business
// hours, so today is dropped; the remaining six days offer full lattices.
func TestCandidateDays_LateEvening(t *testing.T) {
	now := date(20, 45)

	days := CandidateDays(now)

	require.Len(t, days, BookingWindowDays-1)
	for _, day := range days {
		assert.False(t, IsSameDay(day.Date, now))
		require.Len(t, day.Slots, 22)
		assert.Equal(t, "10:00 AM", day.Slots[0].Time)
		assert.Equal(t, "08:30 PM", day.Slots[len(day.Slots)-1].Time)
	}
}

func TestCandidateDays_CoversSevenDays(t *testing.T) {
	now := date(9, 0)

	days := CandidateDays(now)

	require.Len(t, days, BookingWindowDays)
	assert.True(t, IsSameDay(days[0].Date, now))
	assert.True(t, IsSameDay(days[len(days)-1].Date, now.AddDate(0, 0, 6)))
}
