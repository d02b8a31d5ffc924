package get_day_timeline

import (
	"context"

	getDayTimeline "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_timeline"
)

type GetDayTimelineUseCase interface {
	Execute(ctx context.Context, req *getDayTimeline.Request) (*getDayTimeline.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
