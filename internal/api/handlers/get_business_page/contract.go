package get_business_page

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

type BusinessService interface {
	GetBySlug(ctx context.Context, slug string) (*models.BusinessPageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
