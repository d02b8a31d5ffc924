package create_service

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
	msgInvalidService     = "некорректная услуга: длительность от 5 до 720 минут, цена не отрицательная"
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

// Handle POST /api/v1/businesses/{businessId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateService(r.Context(), caller, businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, businesses.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("POST /businesses/{id}/services - Access denied: business_id=%d, user_id=%d", businessID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /businesses/{id}/services - Failed to create service: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/services - Service created: business_id=%d, service_id=%d", businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
