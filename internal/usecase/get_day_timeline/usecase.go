package get_day_timeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
)

// UseCase use case для таймлайна дня в панели бизнеса
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Execute строит таймлайн дня: окно работы, слоты движка и записи.
// Ограничения по дате не применяются, владелец видит и прошедшие дни.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayTimeline: caller=%d, business=%d, date=%s",
		req.Caller.UserID, req.BusinessID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	date := domain.DateOnly(req.Date)

	// 2. Получаем бизнес и проверяем права
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetDayTimeline: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !req.Caller.CanManage(business) {
		uc.logger.Warn("GetDayTimeline: user id=%d cannot manage business id=%d", req.Caller.UserID, business.ID)
		return nil, ErrForbidden
	}

	// 3. Длительность: услуга или шаг сетки
	duration := business.SlotGranularityMinutes
	if req.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetDayTimeline: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.BelongsTo(business.ID) {
			return nil, ErrServiceNotFound
		}
		duration = service.DurationMinutes
	}

	// 4. Окно работы и записи дня
	window, err := uc.scheduleRepo.GetEffectiveWindow(ctx, business.ID, date)
	if err != nil {
		uc.logger.Error("GetDayTimeline: failed to get operating window: %v", err)
		return nil, fmt.Errorf("%w: failed to get operating window: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, domain.BusinessAppointmentsFilter{
		BusinessID:      business.ID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: true,
	})
	if err != nil {
		uc.logger.Error("GetDayTimeline: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Слоты строятся по активным записям
	booked := make([]slotengine.BookedInterval, 0, len(appointments))
	for _, a := range appointments {
		if a.IsActive() {
			booked = append(booked, slotengine.BookedInterval{Start: a.StartTime, End: a.EndTime})
		}
	}
	slots := slotengine.GenerateSlots(window, business.SlotGranularityMinutes, duration, booked)

	return &Response{
		Date:               date,
		BusinessID:         business.ID,
		ServiceID:          req.ServiceID,
		DurationMinutes:    duration,
		GranularityMinutes: business.SlotGranularityMinutes,
		Window: Window{
			IsClosed:   window.IsClosed,
			OpenTime:   window.OpenTime,
			CloseTime:  window.CloseTime,
			BreakStart: window.BreakStart,
			BreakEnd:   window.BreakEnd,
		},
		Slots:        toSlots(slots),
		Appointments: toAppointments(appointments),
	}, nil
}

func toSlots(slots []slotengine.Slot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, Slot{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Available: s.Available,
			Reason:    string(s.Reason),
		})
	}
	return result
}

func toAppointments(appointments []*domain.Appointment) []Appointment {
	result := make([]Appointment, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, Appointment{
			ID:          a.ID,
			CustomerID:  a.CustomerID,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			Status:      string(a.Status),
			Notes:       a.Notes,
		})
	}
	return result
}
