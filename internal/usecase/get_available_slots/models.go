package get_available_slots

import (
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	DoctorID int64 // ID врача
}

// Slot один доступный слот
type Slot struct {
	Time       string                // строка для отображения, например "09:00 AM"
	Normalized domain.NormalizedTime // канонический ключ слота
}

// Day доступные слоты одного календарного дня
type Day struct {
	Date  time.Time
	Slots []Slot
}

// Response модель ответа: дни скользящего окна, в которых остались слоты.
// Пустой список дней означает, что в ближайшие 7 дней слотов нет вовсе.
type Response struct {
	DoctorID int64
	Days     []Day
}
