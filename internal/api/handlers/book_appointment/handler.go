package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/Clinic-AppointmentService/internal/api/handlers"
	"github.com/m04kA/Clinic-AppointmentService/internal/api/middleware"
	bookAppointment "github.com/m04kA/Clinic-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgDoctorNotFound     = "врач не найден"
	msgDoctorUnavailable  = "врач не принимает новые записи"
	msgSlotAlreadyBooked  = "выбранный слот уже занят"
	msgInvalidSlot        = "некорректный слот: дата или время вне доступного расписания"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Пациент — аутентифицированный пользователь (через middleware Auth)
	patientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(patientID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse booking date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /appointments - Slot already booked: doctor_id=%d, patient_id=%d, date=%s, time=%s",
				req.DoctorID, patientID, req.BookingDate, req.SlotTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotAlreadyBooked)

		case errors.Is(err, bookAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, bookAppointment.ErrDoctorUnavailable):
			h.logger.Warn("POST /appointments - Doctor unavailable: doctor_id=%d", req.DoctorID)
			handlers.RespondError(w, http.StatusConflict, msgDoctorUnavailable)

		case errors.Is(err, bookAppointment.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: doctor_id=%d, date=%s, time=%s",
				req.DoctorID, req.BookingDate, req.SlotTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: doctor_id=%d, patient_id=%d", req.DoctorID, patientID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment booked successfully: appointment_id=%s, doctor_id=%d, patient_id=%d",
		result.ID, req.DoctorID, patientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
