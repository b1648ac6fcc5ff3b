package confirm_payment

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentService interface {
	MarkPaid(ctx context.Context, id uuid.UUID, patientID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
