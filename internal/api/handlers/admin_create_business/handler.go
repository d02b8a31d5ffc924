package admin_create_business

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBusiness    = "некорректные данные бизнеса"
	msgSlugTaken          = "slug уже занят"
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

// Handle POST /api/v1/admin/businesses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("POST /admin/businesses - Access denied: user_id=%d", caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, businesses.ErrSlugTaken):
			handlers.RespondConflict(w, msgSlugTaken)

		case errors.Is(err, businesses.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBusiness)

		default:
			h.logger.Error("POST /admin/businesses - Failed to create business: slug=%s, error=%v", req.Slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/businesses - Business created: business_id=%d, slug=%s", result.ID, result.Slug)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
