package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	"github.com/m04kA/Clinic-AppointmentService/internal/integrations/doctorservice"
)

// LedgerRepository интерфейс репозитория реестра занятых слотов
type LedgerRepository interface {
	GetBookedTimes(ctx context.Context, doctorID int64, from, to time.Time) (map[string][]domain.NormalizedTime, error)
}

// DoctorServiceClient интерфейс клиента справочника врачей
type DoctorServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*doctorservice.Doctor, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
