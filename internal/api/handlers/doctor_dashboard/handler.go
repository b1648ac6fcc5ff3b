package doctor_dashboard

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

// Handle GET /api/v1/doctors/{doctorId}/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем doctorId из URL
	vars := mux.Vars(r)
	doctorIDStr := vars["doctorId"]

	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/dashboard - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Сводку врача видит только сам врач
	authUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{doctorId}/dashboard - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if authUserID != doctorID {
		h.logger.Warn("GET /doctors/{doctorId}/dashboard - Access denied: doctor_id=%d, auth_user_id=%d",
			doctorID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Собираем сводку
	result, err := h.service.GetDoctorDashboard(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("GET /doctors/{doctorId}/dashboard - Failed to build dashboard: doctor_id=%d, error=%v",
			doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /doctors/{doctorId}/dashboard - Dashboard built successfully: doctor_id=%d, appointments=%d",
		doctorID, result.Appointments)
	handlers.RespondJSON(w, http.StatusOK, result)
}
