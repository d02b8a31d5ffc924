package check_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	checkBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CheckBookingRequest HTTP request model
type CheckBookingRequest struct {
	ServiceID int64  `json:"serviceId" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
}

// CheckBookingResponse HTTP response model
type CheckBookingResponse struct {
	OK              bool   `json:"ok"`
	BusinessID      int64  `json:"businessId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason,omitempty"`
	Message         string `json:"message,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос use case
func (r *CheckBookingRequest) ToUseCaseRequest(businessID int64) (*checkBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &checkBooking.Request{
		BusinessID: businessID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  types.TimeString(r.StartTime),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkBooking.Response) *CheckBookingResponse {
	return &CheckBookingResponse{
		OK:              resp.OK,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Reason:          resp.Reason,
		Message:         resp.Message,
	}
}
