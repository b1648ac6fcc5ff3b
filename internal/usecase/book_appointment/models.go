package book_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на бронирование слота
type Request struct {
	DoctorID  int64     // ID врача
	PatientID int64     // ID пациента
	Date      time.Time // дата слота (без времени)
	SlotTime  string    // время слота как его выбрал пациент, например "09:00 AM"
}

// Response модель ответа с созданной записью на приём
type Response struct {
	ID          uuid.UUID // ID созданной записи
	DoctorID    int64
	PatientID   int64
	BookingDate time.Time
	SlotTime    string

	// Денормализованные данные
	DoctorName string
	Amount     float64

	CreatedAt time.Time
}
