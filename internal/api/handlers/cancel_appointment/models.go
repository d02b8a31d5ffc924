package cancel_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model, тело запроса опционально
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	return &models.CancelRequest{Reason: r.Reason}
}
