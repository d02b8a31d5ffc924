package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWeeklyHours(ctx context.Context, businessID int64) ([]domain.OperatingHours, error)
	ReplaceWeeklyHours(ctx context.Context, businessID int64, hours []domain.OperatingHours) error
	ListOverrides(ctx context.Context, businessID int64, from time.Time) ([]domain.ScheduleOverride, error)
	UpsertOverride(ctx context.Context, override *domain.ScheduleOverride) (*domain.ScheduleOverride, error)
	DeleteOverride(ctx context.Context, businessID int64, date time.Time) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
