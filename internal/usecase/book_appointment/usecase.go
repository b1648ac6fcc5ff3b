package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/appointment"
	ledgerRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/slotledger"
	doctorClient "github.com/m04kA/Clinic-AppointmentService/internal/integrations/doctorservice"
)

// UseCase use case бронирования слота
type UseCase struct {
	ledgerRepo      LedgerRepository
	appointmentRepo AppointmentRepository
	doctorClient    DoctorServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledgerRepo LedgerRepository,
	appointmentRepo AppointmentRepository,
	doctorClient DoctorServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledgerRepo:      ledgerRepo,
		appointmentRepo: appointmentRepo,
		doctorClient:    doctorClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case бронирования слота.
//
// Порядок строго фиксирован: сначала атомарное резервирование в реестре,
// затем создание записи на приём — в одной сериализуемой транзакции.
// Из двух конкурентных запросов на один SlotKey ровно один проходит
// резервирование, второй получает ErrSlotAlreadyBooked.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: doctor=%d, patient=%d, date=%s, time=%s",
		req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.SlotTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем слот по решётке кандидатов (до обращения к реестру)
	normalized, err := validateSlot(req.Date, req.SlotTime, now)
	if err != nil {
		uc.logger.Warn("BookAppointment: slot validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем карточку врача
	doctor, err := uc.doctorClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("BookAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("BookAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	if !doctor.Available {
		uc.logger.Warn("BookAppointment: doctor id=%d is not accepting appointments", req.DoctorID)
		return nil, ErrDoctorUnavailable
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Резервирование и создание записи — одна единица работы
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Защита от расхождения записей и реестра: активная запись на
		// этот слот блокирует бронирование независимо от состояния реестра
		existing, err := uc.appointmentRepo.FindActiveBySlot(txCtx, req.DoctorID, req.Date, normalized)
		if err != nil && !errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Error("BookAppointment: failed to check existing appointment: %v", err)
			return fmt.Errorf("%w: failed to check existing appointment: %v", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Warn("BookAppointment: active appointment %s already occupies the slot", existing.ID)
			return ErrSlotAlreadyBooked
		}

		// 5.2. Атомарное добавление в реестр: проверка занятости и вставка —
		// один запрос на стороне хранилища, а не read-then-write
		if err := uc.ledgerRepo.Reserve(txCtx, req.DoctorID, req.Date, req.SlotTime, normalized); err != nil {
			if errors.Is(err, ledgerRepo.ErrSlotTaken) {
				uc.logger.Warn("BookAppointment: slot %s %s already taken for doctor=%d",
					req.Date.Format(domain.DateFormat), normalized, req.DoctorID)
				return ErrSlotAlreadyBooked
			}
			uc.logger.Error("BookAppointment: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 5.3. Создаем запись только после успешного резервирования.
		// Строка времени сохраняется ровно в том виде, в котором её выбрал
		// пациент; цена фиксируется из карточки врача на момент бронирования.
		appt := &domain.Appointment{
			DoctorID:    req.DoctorID,
			PatientID:   req.PatientID,
			BookingDate: req.Date,
			SlotTime:    req.SlotTime,
			DoctorName:  doctor.Name,
			Amount:      doctor.Fees,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully booked appointment id=%s", result.ID)

	return &Response{
		ID:          result.ID,
		DoctorID:    result.DoctorID,
		PatientID:   result.PatientID,
		BookingDate: result.BookingDate,
		SlotTime:    result.SlotTime,
		DoctorName:  result.DoctorName,
		Amount:      result.Amount,
		CreatedAt:   result.CreatedAt,
	}, nil
}
