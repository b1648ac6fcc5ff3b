package models

import (
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
)

// AppointmentResponse модель записи на приём для внешних слоёв
type AppointmentResponse struct {
	ID          string  `json:"id"`
	DoctorID    int64   `json:"doctorId"`
	PatientID   int64   `json:"patientId"`
	BookingDate string  `json:"bookingDate"`
	SlotTime    string  `json:"slotTime"`
	DoctorName  string  `json:"doctorName"`
	Amount      float64 `json:"amount"`
	Cancelled   bool    `json:"cancelled"`
	IsCompleted bool    `json:"isCompleted"`
	Paid        bool    `json:"paid"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	RequestingUserID int64 // пациент или врач этой записи
}

// CompleteAppointmentRequest запрос на завершение приёма
type CompleteAppointmentRequest struct {
	DoctorID int64 // врач, проводивший приём
}

// DoctorDashboardResponse сводка по приёмам врача
type DoctorDashboardResponse struct {
	Earnings           float64                `json:"earnings"`
	Appointments       int                    `json:"appointments"`
	Patients           int                    `json:"patients"`
	LatestAppointments []*AppointmentResponse `json:"latestAppointments"`
}

// FromDomainAppointment конвертирует domain-модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          a.ID.String(),
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		BookingDate: a.BookingDate.Format(domain.DateFormat),
		SlotTime:    a.SlotTime,
		DoctorName:  a.DoctorName,
		Amount:      a.Amount,
		Cancelled:   a.Cancelled,
		IsCompleted: a.IsCompleted,
		Paid:        a.Paid,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список domain-моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := make([]*AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, FromDomainAppointment(a))
	}
	return &AppointmentListResponse{
		Appointments: result,
		Total:        len(result),
	}
}
