package domain

import "time"

// Slot is one bookable candidate: the display string shown to the patient
// plus the canonical key used for every comparison against the ledger.
type Slot struct {
	Time       string // например "09:00 AM" — в таком виде слот и сохраняется
	Normalized NormalizedTime
}

// DaySlots holds the candidate slots of a single calendar day.
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}

// DayStart returns the first bookable instant of the given date.
//
// For today the start is pushed forward by the same-day cutoff: start hour
// is now.hour+1 when now.hour > 10, otherwise 10:00; start minute is 30
// when now.minute > 30, otherwise 0. For any other day the start is fixed
// at the opening hour.
func DayStart(date, now time.Time) time.Time {
	if !IsSameDay(date, now) {
		return time.Date(date.Year(), date.Month(), date.Day(), BusinessDayStartHour, 0, 0, 0, date.Location())
	}

	hour := BusinessDayStartHour
	if now.Hour() > BusinessDayStartHour {
		hour = now.Hour() + 1
	}
	minute := 0
	if now.Minute() > 30 {
		minute = 30
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// CandidateSlots enumerates the slot lattice for one day at fixed
// 30-minute steps from DayStart up to (and excluding) the closing hour.
// A day whose cutoff already passed the closing hour yields an empty slice.
func CandidateSlots(date, now time.Time) []Slot {
	start := DayStart(date, now)
	end := time.Date(date.Year(), date.Month(), date.Day(), BusinessDayEndHour, 0, 0, 0, date.Location())

	slots := make([]Slot, 0)
	for t := start; t.Before(end); t = t.Add(SlotStepMinutes * time.Minute) {
		display := t.Format(TimeDisplayFormat)
		normalized, err := NormalizeTime(display)
		if err != nil {
			// Отформатированное время всегда содержит цифры, сюда не попадаем
			continue
		}
		slots = append(slots, Slot{Time: display, Normalized: normalized})
	}

	return slots
}

// CandidateDays builds the rolling booking window: BookingWindowDays
// consecutive calendar days starting at now's date. Days without a single
// candidate slot are omitted entirely.
func CandidateDays(now time.Time) []DaySlots {
	days := make([]DaySlots, 0, BookingWindowDays)

	for i := 0; i < BookingWindowDays; i++ {
		date := now.AddDate(0, 0, i)
		slots := CandidateSlots(date, now)
		if len(slots) == 0 {
			continue
		}
		days = append(days, DaySlots{Date: date, Slots: slots})
	}

	return days
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
