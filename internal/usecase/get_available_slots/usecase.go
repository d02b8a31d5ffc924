package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	policy          domain.BookingPolicy
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	policy domain.BookingPolicy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	// 2. Проверяем дату по правилам записи
	switch uc.policy.CheckDate(date, now) {
	case domain.DateInPast:
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	case domain.DateTooFar:
		uc.logger.Warn("GetAvailableSlots: date %s is beyond %d days", date.Format(domain.DateFormat), uc.policy.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.policy.AdvanceBookingDays)
	}

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("GetAvailableSlots: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу и проверяем, что ее можно забронировать в этом бизнесе
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(business.ID) {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable at business id=%d", service.ID, business.ID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем окно работы на дату
	window, err := uc.scheduleRepo.GetEffectiveWindow(ctx, business.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get operating window: %v", err)
		return nil, fmt.Errorf("%w: failed to get operating window: %v", ErrInternal, err)
	}

	response := &Response{
		Date:               date,
		BusinessID:         business.ID,
		ServiceID:          service.ID,
		DurationMinutes:    service.DurationMinutes,
		GranularityMinutes: business.SlotGranularityMinutes,
		IsClosed:           !window.HasHours(),
		Slots:              []Slot{},
	}

	// Выходной день - пустой список, а не ошибка
	if response.IsClosed {
		uc.logger.Info("GetAvailableSlots: business id=%d is closed on %s", business.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Получаем занятые интервалы
	booked, err := uc.appointmentRepo.GetBookedIntervals(ctx, business.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked intervals: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты и применяем минимальный интервал до записи
	slots := slotengine.GenerateSlots(window, business.SlotGranularityMinutes, service.DurationMinutes, booked)
	if earliest, ok := uc.policy.EarliestStart(date, now); ok {
		slots = slotengine.ApplyNotice(slots, earliest)
	}

	available := slotengine.AvailableOnly(slots)
	uc.metrics.ObserveSlots(len(slots), len(available))

	if req.OnlyAvailable {
		slots = available
	}

	response.Slots = toSlots(slots)

	uc.logger.Info("GetAvailableSlots: business id=%d, %d slots, %d available",
		business.ID, len(response.Slots), len(available))

	return response, nil
}

func toSlots(slots []slotengine.Slot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Available: s.Available,
			Reason:    string(s.Reason),
		}
	}
	return result
}
