package get_available_slots

import (
	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/Clinic-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID int64          `json:"doctorId"`
	Days     []AvailableDay `json:"days"`
}

// AvailableDay слоты одного календарного дня
type AvailableDay struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]AvailableDay, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]string, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = slot.Time
		}
		days[i] = AvailableDay{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &AvailableSlotsResponse{
		DoctorID: resp.DoctorID,
		Days:     days,
	}
}
