package businesses

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	List(ctx context.Context, activeOnly bool, limit, offset uint64) ([]*domain.Business, error)
	UpdateSettings(ctx context.Context, id int64, name *string, granularityMinutes *int) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	ListByBusiness(ctx context.Context, businessID int64, activeOnly bool) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
