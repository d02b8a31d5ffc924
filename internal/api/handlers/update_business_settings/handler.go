package update_business_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSettings    = "некорректные настройки: шаг сетки от 5 до 240 минут, название не пустое"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/businesses/{businessId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /businesses/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), caller, businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSettings)

		case errors.Is(err, businesses.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("PATCH /businesses/{id} - Access denied: business_id=%d, user_id=%d", businessID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /businesses/{id} - Failed to update settings: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /businesses/{id} - Settings updated: business_id=%d, granularity=%d", businessID, result.SlotGranularityMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
