package domain

// Business hours of the clinic, identical for every doctor and every day
const (
	BusinessDayStartHour = 10 // первый слот дня — 10:00
	BusinessDayEndHour   = 21 // верхняя граница, не включается
	SlotStepMinutes      = 30
)

// BookingWindowDays размер скользящего окна бронирования в днях
const BookingWindowDays = 7

// Time format constants
const (
	DateFormat        = "2006-01-02" // YYYY-MM-DD
	TimeDisplayFormat = "03:04 PM"   // 12-часовой формат с меридиемом, например "09:00 AM"
)
