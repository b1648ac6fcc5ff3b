package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	doctorClient "github.com/m04kA/Clinic-AppointmentService/internal/integrations/doctorservice"
)

// UseCase use case для получения доступных слотов врача
type UseCase struct {
	ledgerRepo   LedgerRepository
	doctorClient DoctorServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledgerRepo LedgerRepository,
	doctorClient DoctorServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledgerRepo:   ledgerRepo,
		doctorClient: doctorClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Операция только читает: решётка кандидатов на 7 дней строится от
// текущего момента и фильтруется снимком реестра занятых слотов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d", req.DoctorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем карточку врача
	doctor, err := uc.doctorClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Врач, не принимающий записи, не предлагает слотов
	if !doctor.Available {
		uc.logger.Info("GetAvailableSlots: doctor id=%d is not accepting appointments", req.DoctorID)
		return &Response{DoctorID: req.DoctorID, Days: []Day{}}, nil
	}

	// 5. Строим решётку кандидатов на скользящее окно
	candidates := domain.CandidateDays(now)

	// 6. Получаем снимок занятых слотов за окно
	from := now
	to := now.AddDate(0, 0, domain.BookingWindowDays-1)
	booked, err := uc.ledgerRepo.GetBookedTimes(ctx, req.DoctorID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked slots for doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}

	// 7. Убираем занятые слоты
	available := filterBookedSlots(candidates, booked)

	uc.logger.Info("GetAvailableSlots: doctor=%d, %d days with free slots", req.DoctorID, len(available))

	return toResponse(req.DoctorID, available), nil
}

func toResponse(doctorID int64, days []domain.DaySlots) *Response {
	result := make([]Day, 0, len(days))
	for _, day := range days {
		slots := make([]Slot, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, Slot{Time: s.Time, Normalized: s.Normalized})
		}
		result = append(result, Day{Date: day.Date, Slots: slots})
	}
	return &Response{DoctorID: doctorID, Days: result}
}
