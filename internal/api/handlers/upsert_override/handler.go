package upsert_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOverride    = "некорректное исключение: укажите время открытия и закрытия или отметьте день выходным"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/schedule/overrides/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/overrides/{date} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Date = date

	result, err := h.service.UpsertOverride(r.Context(), caller, businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule/overrides/{date} - Invalid override: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidOverride)

		case errors.Is(err, schedule.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/schedule/overrides/{date} - Access denied: business_id=%d, user_id=%d", businessID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule/overrides/{date} - Failed to save override: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule/overrides/{date} - Override saved: business_id=%d, date=%s, closed=%t",
		businessID, result.Date, result.IsClosed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
