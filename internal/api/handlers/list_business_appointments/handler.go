package list_business_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidStartDate  = "некорректный формат startDate, ожидается YYYY-MM-DD"
	msgInvalidEndDate    = "некорректный формат endDate, ожидается YYYY-MM-DD"
	msgInvalidFlag       = "некорректное значение includeInactive"
	msgInvalidTimeRange  = "startDate должна быть не позже endDate"
	msgInvalidStatus     = "некорректный статус записи"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/businesses/{businessId}/appointments
// Query params: startDate, endDate, status, includeInactive (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStartDate)
		return
	}

	endDate, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEndDate)
		return
	}

	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFlag)
		return
	}

	req := &models.ListForBusinessRequest{
		BusinessID:      businessID,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          handlers.QueryString(r, "status"),
		IncludeInactive: includeInactive,
	}

	result, err := h.service.ListForBusiness(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/appointments - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/appointments - Access denied: business_id=%d, user_id=%d", businessID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/appointments - Failed to list appointments: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/appointments - Appointments retrieved: business_id=%d, count=%d",
		businessID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
