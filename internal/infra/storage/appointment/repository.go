package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	"github.com/m04kA/Clinic-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/Clinic-AppointmentService/pkg/psqlbuilder"
)

const selectColumns = `id, doctor_id, patient_id, booking_date, slot_time, doctor_name, amount,
cancelled, is_completed, paid, created_at, updated_at`

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей на приём
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на приём.
// Вызывается только после успешного Reserve в реестре слотов — внутри той
// же транзакции, чтобы откат вставки откатил и резервирование.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	normalized, err := domain.NormalizeTime(appt.SlotTime)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - normalize slot time %q: %v", ErrInvalidSlotTime, appt.SlotTime, err)
	}

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"doctor_id",
			"patient_id",
			"booking_date",
			"slot_time",
			"slot_time_normalized",
			"doctor_name",
			"amount",
			"cancelled",
			"is_completed",
			"paid",
		).
		Values(
			appt.ID,
			appt.DoctorID,
			appt.PatientID,
			appt.BookingDate,
			appt.SlotTime,
			string(normalized),
			appt.DoctorName,
			appt.Amount,
			appt.Cancelled,
			appt.IsCompleted,
			appt.Paid,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись на приём по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// FindActiveBySlot ищет активную (не отменённую) запись на указанный слот
// врача. Сравнение идёт по нормализованному времени, а не по исходной
// строке. Используется как защита от расхождения реестра слотов и записей.
func (r *Repository) FindActiveBySlot(
	ctx context.Context,
	doctorID int64,
	bookingDate time.Time,
	normalized domain.NormalizedTime,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns).
		From("appointments").
		Where(squirrel.Eq{
			"doctor_id":            doctorID,
			"booking_date":         bookingDate,
			"slot_time_normalized": string(normalized),
			"cancelled":            false,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "FindActiveBySlot")
}

// GetByPatientID получает историю записей пациента (новые первыми)
func (r *Repository) GetByPatientID(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	return r.getByOwner(ctx, squirrel.Eq{"patient_id": patientID}, "GetByPatientID")
}

// GetByDoctorID получает все записи врача (новые первыми)
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64) ([]*domain.Appointment, error) {
	return r.getByOwner(ctx, squirrel.Eq{"doctor_id": doctorID}, "GetByDoctorID")
}

// SetCancelled помечает запись отменённой.
// Флаг переводится только из активного состояния: повторная отмена
// и отмена завершённой записи не затрагивают ни одной строки.
func (r *Repository) SetCancelled(ctx context.Context, id uuid.UUID) error {
	return r.setFlag(ctx, id, "cancelled", squirrel.Eq{"cancelled": false, "is_completed": false}, "SetCancelled")
}

// SetCompleted помечает запись завершённой (только из активного состояния)
func (r *Repository) SetCompleted(ctx context.Context, id uuid.UUID) error {
	return r.setFlag(ctx, id, "is_completed", squirrel.Eq{"cancelled": false, "is_completed": false}, "SetCompleted")
}

// SetPaid помечает запись оплаченной (только активную)
func (r *Repository) SetPaid(ctx context.Context, id uuid.UUID) error {
	return r.setFlag(ctx, id, "paid", squirrel.Eq{"cancelled": false}, "SetPaid")
}

func (r *Repository) setFlag(ctx context.Context, id uuid.UUID, column string, guard squirrel.Eq, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("appointments").
		Set(column, true).
		Where(squirrel.Eq{"id": id})
	if guard != nil {
		builder = builder.Where(guard)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) getByOwner(ctx context.Context, where squirrel.Eq, op string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns).
		From("appointments").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		var appt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appt.ID,
			&appt.DoctorID,
			&appt.PatientID,
			&appt.BookingDate,
			&appt.SlotTime,
			&appt.DoctorName,
			&appt.Amount,
			&appt.Cancelled,
			&appt.IsCompleted,
			&appt.Paid,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time
		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

func (r *Repository) scanAppointment(row *sql.Row, op string) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.DoctorID,
		&appt.PatientID,
		&appt.BookingDate,
		&appt.SlotTime,
		&appt.DoctorName,
		&appt.Amount,
		&appt.Cancelled,
		&appt.IsCompleted,
		&appt.Paid,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}
