package update_appointment_status

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateStatusRequest) error
	GetByID(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
