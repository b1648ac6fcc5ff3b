package slotledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	"github.com/m04kA/Clinic-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/Clinic-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий реестра занятых слотов.
//
// Таблица booked_slots — авторитетный источник того, какие слоты заняты:
// doctor_id -> slot_date -> множество нормализованных времён. Изменяется
// только через Reserve/Release, единственность слота гарантирует
// уникальный констрейнт на (doctor_id, slot_date, slot_time_normalized).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория реестра слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve атомарно занимает слот для врача.
//
// Проверка занятости и вставка — один запрос: INSERT ... ON CONFLICT DO
// NOTHING. Из двух конкурентных вызовов на один и тот же слот ровно один
// получает вставленную строку, второй — ErrSlotTaken. Никакого
// read-then-write на стороне приложения.
func (r *Repository) Reserve(
	ctx context.Context,
	doctorID int64,
	slotDate time.Time,
	slotTime string,
	normalized domain.NormalizedTime,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booked_slots").
		Columns("doctor_id", "slot_date", "slot_time", "slot_time_normalized").
		Values(doctorID, slotDate, slotTime, string(normalized)).
		Suffix("ON CONFLICT ON CONSTRAINT booked_slots_doctor_slot_unique DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotTaken
	}

	return nil
}

// Release освобождает слот врача. Идемпотентна: удаление отсутствующей
// записи не является ошибкой.
func (r *Repository) Release(
	ctx context.Context,
	doctorID int64,
	slotDate time.Time,
	normalized domain.NormalizedTime,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booked_slots").
		Where(squirrel.Eq{
			"doctor_id":            doctorID,
			"slot_date":            slotDate,
			"slot_time_normalized": string(normalized),
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBookedTimes возвращает нормализованные времена занятых слотов врача
// за период [from, to], сгруппированные по дате (ключ — domain.DateFormat).
// Снимок только для чтения: день без бронирований отсутствует в мапе.
func (r *Repository) GetBookedTimes(
	ctx context.Context,
	doctorID int64,
	from, to time.Time,
) (map[string][]domain.NormalizedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time_normalized").
		From("booked_slots").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		OrderBy("slot_date ASC, slot_time_normalized ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	booked := make(map[string][]domain.NormalizedTime)
	for rows.Next() {
		var slotDate time.Time
		var normalized string
		if err := rows.Scan(&slotDate, &normalized); err != nil {
			return nil, fmt.Errorf("%w: GetBookedTimes - scan row: %v", ErrScanRow, err)
		}
		key := slotDate.Format(domain.DateFormat)
		booked[key] = append(booked[key], domain.NormalizedTime(normalized))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedTimes - rows error: %v", ErrScanRow, err)
	}

	return booked, nil
}
