package book_appointment

import (
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	bookAppointment "github.com/m04kA/Clinic-AppointmentService/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID    int64  `json:"doctorId"`
	BookingDate string `json:"bookingDate"` // "2026-09-03"
	SlotTime    string `json:"slotTime"`    // "09:00 AM"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          string  `json:"id"`
	DoctorID    int64   `json:"doctorId"`
	PatientID   int64   `json:"patientId"`
	BookingDate string  `json:"bookingDate"`
	SlotTime    string  `json:"slotTime"`
	DoctorName  string  `json:"doctorName"`
	Amount      float64 `json:"amount"`
	CreatedAt   string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(patientID int64) (*bookAppointment.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		DoctorID:  r.DoctorID,
		PatientID: patientID,
		Date:      bookingDate,
		SlotTime:  r.SlotTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID.String(),
		DoctorID:    resp.DoctorID,
		PatientID:   resp.PatientID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		SlotTime:    resp.SlotTime,
		DoctorName:  resp.DoctorName,
		Amount:      resp.Amount,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
