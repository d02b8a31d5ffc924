package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgDateInPast         = "дата записи уже прошла"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgClosedDay          = "в этот день бизнес не работает"
	msgOutsideHours       = "выбранное время вне часов работы"
	msgOverrunsClosing    = "услуга не успеет закончиться до закрытия, выберите время раньше"
	msgDuringBreak        = "выбранное время пересекается с перерывом"
	msgSlotTaken          = "это время только что заняли, выберите другое"
	msgMisalignedStart    = "время начала должно совпадать с сеткой слотов"
	msgTooSoon            = "на это время уже слишком поздно записываться"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, err, &req, customerID)
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, customer_id=%d, business_id=%d, date=%s, start=%s",
		result.ID, customerID, req.BusinessID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, req *CreateAppointmentRequest, customerID int64) {
	if reason, ok := slotengine.ReasonOf(err); ok {
		h.logger.Warn("POST /appointments - Rejected: customer_id=%d, business_id=%d, date=%s, start=%s, reason=%s",
			customerID, req.BusinessID, req.Date, req.StartTime, reason)
	}

	switch {
	case errors.Is(err, createAppointment.ErrSlotTaken):
		handlers.RespondRejection(w, http.StatusConflict, slotengine.ReasonConflict.String(), msgSlotTaken)

	case errors.Is(err, createAppointment.ErrClosedDay):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonClosedDay.String(), msgClosedDay)

	case errors.Is(err, createAppointment.ErrOutsideHours):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonOutsideHours.String(), msgOutsideHours)

	case errors.Is(err, createAppointment.ErrOverrunsClosing):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonOverrunsClosing.String(), msgOverrunsClosing)

	case errors.Is(err, createAppointment.ErrDuringBreak):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonDuringBreak.String(), msgDuringBreak)

	case errors.Is(err, createAppointment.ErrMisalignedStart):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonMisalignedStart.String(), msgMisalignedStart)

	case errors.Is(err, createAppointment.ErrTooSoon):
		handlers.RespondRejection(w, http.StatusBadRequest, slotengine.ReasonTooSoon.String(), msgTooSoon)

	case errors.Is(err, createAppointment.ErrBusinessNotFound):
		h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, createAppointment.ErrServiceNotFound):
		h.logger.Warn("POST /appointments - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createAppointment.ErrDateInPast):
		handlers.RespondBadRequest(w, msgDateInPast)

	case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /appointments - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, business_id=%d, error=%v",
			customerID, req.BusinessID, err)
		handlers.RespondInternalError(w)
	}
}
