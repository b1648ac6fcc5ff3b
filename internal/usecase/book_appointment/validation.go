package book_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotTime == "" {
		return fmt.Errorf("%w: slotTime is required", ErrInvalidInput)
	}

	return nil
}

// validateSlot проверяет, что (дата, время) — валидный бронируемый слот,
// и возвращает его канонический ключ.
//
// Слот валиден, только если его нормализованное время присутствует в
// решётке кандидатов этого дня. Это одной проверкой закрывает прошедшие
// даты, выход за окно бронирования, время вне рабочих часов, значения не
// на 30-минутной решётке и нарушение same-day cutoff.
func validateSlot(date time.Time, slotTime string, now time.Time) (domain.NormalizedTime, error) {
	normalized, err := domain.NormalizeTime(slotTime)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimeFormat) {
			return "", fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}
		return "", fmt.Errorf("%w: failed to normalize slot time: %v", ErrInternal, err)
	}

	if !withinBookingWindow(date, now) {
		return "", fmt.Errorf("%w: date %s is outside the booking window", ErrInvalidSlot, date.Format(domain.DateFormat))
	}

	for _, candidate := range domain.CandidateSlots(date, now) {
		if candidate.Normalized == normalized {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("%w: time %q is not bookable on %s", ErrInvalidSlot, slotTime, date.Format(domain.DateFormat))
}

// withinBookingWindow проверяет, что дата попадает в скользящее окно
// [сегодня, сегодня+6]
func withinBookingWindow(date, now time.Time) bool {
	for i := 0; i < domain.BookingWindowDays; i++ {
		if domain.IsSameDay(date, now.AddDate(0, 0, i)) {
			return true
		}
	}
	return false
}
