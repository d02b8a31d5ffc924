package admin_set_business_active

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type BusinessService interface {
	SetActive(ctx context.Context, caller domain.Caller, id int64, active bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
