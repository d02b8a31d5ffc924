package check_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	checkBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_booking"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgDateInPast         = "дата уже прошла"
	msgDateTooFar         = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase CheckBookingUseCase
	logger  Logger
}

func NewHandler(useCase CheckBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/booking-checks
// Проверяет, можно ли записаться на время, ничего не сохраняя.
// Отказ по правилам расписания возвращается как 200 с ok=false и причиной.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/booking-checks - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CheckBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/booking-checks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/booking-checks - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/booking-checks - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, checkBooking.ErrServiceNotFound):
			h.logger.Warn("POST /businesses/{id}/booking-checks - Service not found: business_id=%d, service_id=%d",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, checkBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, checkBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, checkBooking.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/booking-checks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /businesses/{id}/booking-checks - Failed to check booking: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/booking-checks - Checked: business_id=%d, service_id=%d, ok=%t, reason=%s",
		businessID, req.ServiceID, result.OK, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
