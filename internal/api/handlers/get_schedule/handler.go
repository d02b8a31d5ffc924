package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/businesses/{businessId}/schedule
// Query params: from (optional, YYYY-MM-DD) - начиная с какой даты показывать исключения, по умолчанию сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if from == nil {
		today := h.now().UTC()
		from = &today
	}

	result, err := h.service.GetSchedule(r.Context(), businessID, *from)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/schedule - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/schedule - Failed to get schedule: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/schedule - Schedule retrieved: business_id=%d, days=%d, overrides=%d",
		businessID, len(result.Hours), len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}
