package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	"github.com/m04kA/Clinic-AppointmentService/internal/integrations/doctorservice"
)

// LedgerRepository интерфейс репозитория реестра занятых слотов
type LedgerRepository interface {
	Reserve(ctx context.Context, doctorID int64, slotDate time.Time, slotTime string, normalized domain.NormalizedTime) error
}

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	FindActiveBySlot(ctx context.Context, doctorID int64, bookingDate time.Time, normalized domain.NormalizedTime) (*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// DoctorServiceClient интерфейс клиента справочника врачей
type DoctorServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*doctorservice.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
