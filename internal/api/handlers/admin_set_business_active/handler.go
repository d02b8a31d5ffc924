package admin_set_business_active

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается isActive"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступно только администратору платформы"
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

// Handle PATCH /api/v1/admin/businesses/{businessId}/active
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

	var req SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/businesses/{id}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetActive(r.Context(), caller, businessID, *req.IsActive); err != nil {
		switch {
		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("PATCH /admin/businesses/{id}/active - Access denied: user_id=%d", caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, businesses.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("PATCH /admin/businesses/{id}/active - Failed to set active: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/businesses/{id}/active - Business updated: business_id=%d, active=%t", businessID, *req.IsActive)
	handlers.RespondNoContent(w)
}
