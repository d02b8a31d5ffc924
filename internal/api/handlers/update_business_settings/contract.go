package update_business_settings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

type BusinessService interface {
	UpdateSettings(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateSettingsRequest) (*models.BusinessResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
