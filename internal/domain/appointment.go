package domain

import (
	"time"

	"github.com/google/uuid"
)

// Appointment represents a booked appointment in the system.
// Records are never physically deleted — cancelled and completed
// appointments are retained for history.
type Appointment struct {
	ID        uuid.UUID
	DoctorID  int64
	PatientID int64

	BookingDate time.Time // календарный день слота
	SlotTime    string    // точная строка, выбранная пациентом, сохраняется для отображения

	// Denormalized data for history
	DoctorName string
	Amount     float64

	Cancelled   bool
	IsCompleted bool
	Paid        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return !a.Cancelled
}

// IsTerminal returns true once the appointment reached a terminal state
func (a *Appointment) IsTerminal() bool {
	return a.Cancelled || a.IsCompleted
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.Cancelled && !a.IsCompleted
}

// CanBeCompleted returns true if the appointment can be marked completed
func (a *Appointment) CanBeCompleted() bool {
	return !a.Cancelled && !a.IsCompleted
}
