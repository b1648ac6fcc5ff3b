package get_doctor_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/Clinic-AppointmentService/internal/api/handlers"
	"github.com/m04kA/Clinic-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем doctorId из URL
	vars := mux.Vars(r)
	doctorIDStr := vars["doctorId"]

	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/appointments - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Список записей врача видит только сам врач
	authUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{doctorId}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if authUserID != doctorID {
		h.logger.Warn("GET /doctors/{doctorId}/appointments - Access denied: doctor_id=%d, auth_user_id=%d",
			doctorID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Получаем записи врача
	result, err := h.service.GetDoctorAppointments(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("GET /doctors/{doctorId}/appointments - Failed to get appointments: doctor_id=%d, error=%v",
			doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /doctors/{doctorId}/appointments - Appointments retrieved successfully: doctor_id=%d, count=%d",
		doctorID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
