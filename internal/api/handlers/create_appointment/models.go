package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID int64   `json:"businessId" validate:"required,gt=0"`
	ServiceID  int64   `json:"serviceId" validate:"required,gt=0"`
	Date       string  `json:"date" validate:"required,isodate"`
	StartTime  string  `json:"startTime" validate:"required,hhmm"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"businessId"`
	CustomerID      int64     `json:"customerId"`
	ServiceID       int64     `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	ServicePrice    float64   `json:"servicePrice"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerID: customerID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  types.TimeString(r.StartTime),
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		CustomerID:      resp.CustomerID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Date:            resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
