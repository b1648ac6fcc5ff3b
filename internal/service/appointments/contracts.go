package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	GetByDoctorID(ctx context.Context, doctorID int64) ([]*domain.Appointment, error)
	SetCancelled(ctx context.Context, id uuid.UUID) error
	SetCompleted(ctx context.Context, id uuid.UUID) error
	SetPaid(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository интерфейс репозитория реестра занятых слотов
type LedgerRepository interface {
	Release(ctx context.Context, doctorID int64, slotDate time.Time, normalized domain.NormalizedTime) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
