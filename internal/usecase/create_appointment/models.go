package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64            // ID клиента
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	BusinessID      int64
	CustomerID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
