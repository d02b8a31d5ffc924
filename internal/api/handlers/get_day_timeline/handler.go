package get_day_timeline

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getDayTimeline "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_timeline"
)

const (
	msgUnauthorized      = "требуется авторизация"
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgForbidden         = "нет доступа к расписанию бизнеса"
	msgInvalidRequest    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDayTimelineUseCase
	logger  Logger
}

func NewHandler(useCase GetDayTimelineUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/timeline
// Query params: date (required), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/timeline - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/timeline - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if date == nil {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/timeline - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDayTimeline.Request{
		Caller:     caller,
		BusinessID: businessID,
		Date:       *date,
		ServiceID:  serviceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDayTimeline.ErrForbidden):
			h.logger.Warn("GET /businesses/{id}/timeline - Forbidden: user_id=%d, business_id=%d", caller.UserID, businessID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getDayTimeline.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getDayTimeline.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getDayTimeline.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/timeline - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/timeline - Failed to build timeline: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/timeline - Timeline built: business_id=%d, slots=%d, appointments=%d",
		businessID, len(result.Slots), len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
