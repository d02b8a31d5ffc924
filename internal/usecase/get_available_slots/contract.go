package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	// GetEffectiveWindow окно работы на дату с учетом исключений
	GetEffectiveWindow(ctx context.Context, businessID int64, date time.Time) (slotengine.OperatingWindow, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetBookedIntervals интервалы активных записей бизнеса на дату
	GetBookedIntervals(ctx context.Context, businessID int64, date time.Time) ([]slotengine.BookedInterval, error)
}

// Metrics интерфейс сбора метрик
type Metrics interface {
	ObserveSlots(total, available int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
