package delete_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
	msgOverrideNotFound  = "исключение на эту дату не найдено"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/businesses/{businessId}/schedule/overrides/{date}
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

	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), caller, businessID, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverrideNotFound):
			handlers.RespondNotFound(w, msgOverrideNotFound)

		case errors.Is(err, schedule.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/schedule/overrides/{date} - Access denied: business_id=%d, user_id=%d", businessID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/schedule/overrides/{date} - Failed to delete override: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/schedule/overrides/{date} - Override deleted: business_id=%d, date=%s",
		businessID, date.Format(domain.DateFormat))
	handlers.RespondNoContent(w)
}
