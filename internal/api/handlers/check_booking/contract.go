package check_booking

import (
	"context"

	checkBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_booking"
)

type CheckBookingUseCase interface {
	Execute(ctx context.Context, req *checkBooking.Request) (*checkBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
