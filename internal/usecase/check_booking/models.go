package check_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на проверку возможности записи
type Request struct {
	BusinessID int64
	ServiceID  int64
	Date       time.Time
	StartTime  types.TimeString
}

// Response результат проверки. Ничего не сохраняется.
type Response struct {
	OK              bool
	BusinessID      int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // Заполнено только при OK
	DurationMinutes int
	Reason          string // Код причины отказа (closed_day, conflict, ...)
	Message         string // Сообщение для пользователя
}
