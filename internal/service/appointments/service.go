package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/Clinic-AppointmentService/internal/service/appointments/models"
)

// dashboardLatestCount сколько последних записей попадает в сводку врача
const dashboardLatestCount = 5

// Service сервис жизненного цикла записей на приём.
// Создание записей живёт в usecase бронирования; здесь — чтение,
// отмена, завершение и оплата.
type Service struct {
	appointmentRepo AppointmentRepository
	ledgerRepo      LedgerRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	ledgerRepo LedgerRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		ledgerRepo:      ledgerRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят только её пациент и её врач.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, requestingUserID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%d", id, requestingUserID)

	appt, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !belongsTo(appt, requestingUserID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%s", requestingUserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments получает историю записей пациента
func (s *Service) GetPatientAppointments(ctx context.Context, patientID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d", patientID)

	appointments, err := s.appointmentRepo.GetByPatientID(ctx, patientID)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%d", len(appointments), patientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDoctorAppointments получает все записи врача
func (s *Service) GetDoctorAppointments(ctx context.Context, doctorID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%d", doctorID)

	appointments, err := s.appointmentRepo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: fetched %d appointments for doctor=%d", len(appointments), doctorID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись на приём и освобождает слот.
//
// Отменить запись может её пациент или её врач. Флаг cancelled и
// освобождение слота в реестре выполняются в одной транзакции: либо
// происходит и то и другое, либо ничего.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%d", id, req.RequestingUserID)

	appt, err := s.getAppointment(ctx, id, "Cancel")
	if err != nil {
		return err
	}

	if !belongsTo(appt, req.RequestingUserID) {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%s", req.RequestingUserID, id)
		return ErrAccessDenied
	}

	if appt.Cancelled {
		s.logger.Warn("Cancel: appointment id=%s already cancelled", id)
		return ErrAlreadyCancelled
	}
	if appt.IsCompleted {
		s.logger.Warn("Cancel: appointment id=%s already completed", id)
		return ErrAlreadyTerminal
	}

	normalized, err := domain.NormalizeTime(appt.SlotTime)
	if err != nil {
		s.logger.Error("Cancel: failed to normalize slot time %q for appointment id=%s: %v", appt.SlotTime, id, err)
		return fmt.Errorf("%w: Cancel - normalize slot time: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.appointmentRepo.SetCancelled(txCtx, id); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				// Запись успела перейти в терминальное состояние между
				// чтением и обновлением
				return ErrAlreadyTerminal
			}
			return fmt.Errorf("%w: Cancel - set cancelled: %v", ErrInternal, err)
		}

		// Release идемпотентен: отсутствие слота в реестре не ошибка
		if err := s.ledgerRepo.Release(txCtx, appt.DoctorID, appt.BookingDate, normalized); err != nil {
			return fmt.Errorf("%w: Cancel - release slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error("Cancel: failed to cancel appointment id=%s: %v", id, err)
		return err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s, slot released", id)
	return nil
}

// Complete помечает приём завершённым.
//
// Доступно только врачу этой записи и только из активного состояния.
// Слот остаётся занятым в истории — реестр не затрагивается.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, req *models.CompleteAppointmentRequest) error {
	s.logger.Info("Complete: completing appointment id=%s by doctor=%d", id, req.DoctorID)

	appt, err := s.getAppointment(ctx, id, "Complete")
	if err != nil {
		return err
	}

	if appt.DoctorID != req.DoctorID {
		s.logger.Warn("Complete: access denied for doctor=%d to appointment id=%s", req.DoctorID, id)
		return ErrAccessDenied
	}

	if appt.IsTerminal() {
		s.logger.Warn("Complete: appointment id=%s already in terminal state", id)
		return ErrAlreadyTerminal
	}

	if err := s.appointmentRepo.SetCompleted(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAlreadyTerminal
		}
		s.logger.Error("Complete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%s", id)
	return nil
}

// MarkPaid помечает запись оплаченной.
// Вызывается после подтверждения оплаты платёжным сервисом. Идемпотентна
// для уже оплаченной записи; отменённую запись оплатить нельзя.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, patientID int64) error {
	s.logger.Info("MarkPaid: marking appointment id=%s as paid by patient=%d", id, patientID)

	appt, err := s.getAppointment(ctx, id, "MarkPaid")
	if err != nil {
		return err
	}

	if appt.PatientID != patientID {
		s.logger.Warn("MarkPaid: access denied for patient=%d to appointment id=%s", patientID, id)
		return ErrAccessDenied
	}

	if appt.Cancelled {
		s.logger.Warn("MarkPaid: appointment id=%s is cancelled", id)
		return ErrAlreadyCancelled
	}

	if appt.Paid {
		s.logger.Info("MarkPaid: appointment id=%s already paid", id)
		return nil
	}

	if err := s.appointmentRepo.SetPaid(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAlreadyCancelled
		}
		s.logger.Error("MarkPaid: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkPaid: successfully marked appointment id=%s as paid", id)
	return nil
}

// GetDoctorDashboard собирает сводку врача: заработок по завершённым или
// оплаченным приёмам, число уникальных пациентов и последние записи
func (s *Service) GetDoctorDashboard(ctx context.Context, doctorID int64) (*models.DoctorDashboardResponse, error) {
	s.logger.Info("GetDoctorDashboard: building dashboard for doctor=%d", doctorID)

	appointments, err := s.appointmentRepo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetDoctorDashboard: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorDashboard - repository error: %v", ErrInternal, err)
	}

	var earnings float64
	patients := make(map[int64]struct{})

	for _, a := range appointments {
		if a.IsCompleted || a.Paid {
			earnings += a.Amount
		}
		patients[a.PatientID] = struct{}{}
	}

	latest := appointments
	if len(latest) > dashboardLatestCount {
		latest = latest[:dashboardLatestCount]
	}

	return &models.DoctorDashboardResponse{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(patients),
		LatestAppointments: models.FromDomainAppointmentList(latest).Appointments,
	}, nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, id uuid.UUID, op string) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// belongsTo проверяет, что пользователь относится к записи
// как пациент или как врач
func belongsTo(appt *domain.Appointment, userID int64) bool {
	return appt.PatientID == userID || appt.DoctorID == userID
}
