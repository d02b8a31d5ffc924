package check_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для предварительной проверки записи (dry-run)
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	policy          domain.BookingPolicy
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
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute проверяет, можно ли записаться на указанное время, ничего не сохраняя.
// Отказ по правилам расписания возвращается в Response, а не ошибкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckBooking: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	// 2. Проверяем дату по правилам записи
	switch uc.policy.CheckDate(date, now) {
	case domain.DateInPast:
		return nil, ErrDateInPast
	case domain.DateTooFar:
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.policy.AdvanceBookingDays)
	}

	// 3. Получаем бизнес и услугу
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CheckBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		return nil, ErrBusinessNotFound
	}

	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(business.ID) {
		return nil, ErrServiceNotFound
	}

	// 4. Получаем окно работы и занятые интервалы
	window, err := uc.scheduleRepo.GetEffectiveWindow(ctx, business.ID, date)
	if err != nil {
		uc.logger.Error("CheckBooking: failed to get operating window: %v", err)
		return nil, fmt.Errorf("%w: failed to get operating window: %v", ErrInternal, err)
	}

	booked, err := uc.appointmentRepo.GetBookedIntervals(ctx, business.ID, date)
	if err != nil {
		uc.logger.Error("CheckBooking: failed to get booked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked intervals: %v", ErrInternal, err)
	}

	response := &Response{
		BusinessID:      business.ID,
		ServiceID:       service.ID,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
	}

	// 5. Проверяем правила расписания
	endTime, err := uc.evaluate(window, business.SlotGranularityMinutes, service.DurationMinutes, booked, req, date, now)
	if err != nil {
		reason, ok := slotengine.ReasonOf(err)
		if !ok {
			uc.logger.Warn("CheckBooking: invalid engine input: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		uc.logger.Info("CheckBooking: business id=%d, %s rejected: %s", business.ID, req.StartTime, reason)
		response.Reason = string(reason)
		response.Message = ReasonMessage(reason)
		return response, nil
	}

	response.OK = true
	response.EndTime = endTime
	return response, nil
}

// evaluate применяет правила движка, затем политику выравнивания и минимального интервала
func (uc *UseCase) evaluate(
	window slotengine.OperatingWindow,
	granularity, duration int,
	booked []slotengine.BookedInterval,
	req *Request,
	date, now time.Time,
) (types.TimeString, error) {
	endTime, err := slotengine.ValidateBookingRequest(window, granularity, duration, booked, req.StartTime)
	if err != nil {
		return "", err
	}

	if uc.policy.EnforceAlignment && !slotengine.IsAligned(window, granularity, req.StartTime) {
		return "", slotengine.ReasonMisalignedStart
	}

	if earliest, ok := uc.policy.EarliestStart(date, now); ok && req.StartTime.IsBefore(earliest) {
		return "", slotengine.ReasonTooSoon
	}

	return endTime, nil
}
