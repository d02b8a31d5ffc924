package get_day_timeline

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса таймлайна дня
type Request struct {
	Caller     domain.Caller
	BusinessID int64
	Date       time.Time
	ServiceID  *int64 // Если не указан, длительность равна шагу сетки
}

// Response таймлайн дня для панели бизнеса
type Response struct {
	Date               time.Time
	BusinessID         int64
	ServiceID          *int64
	DurationMinutes    int
	GranularityMinutes int
	Window             Window
	Slots              []Slot
	Appointments       []Appointment // Все записи дня, включая отмененные
}

// Window эффективное окно работы на дату
type Window struct {
	IsClosed   bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
	Reason    string
}

// Appointment запись на таймлайне
type Appointment struct {
	ID          int64
	CustomerID  int64
	ServiceID   int64
	ServiceName string
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string
	Notes       *string
}
