package doctor_dashboard

import (
	"context"

	"github.com/m04kA/Clinic-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDoctorDashboard(ctx context.Context, doctorID int64) (*models.DoctorDashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
