package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
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
	txManager TransactionManager,
	policy domain.BookingPolicy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		policy:          policy,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка свободного времени и вставка выполняются в одной сериализуемой транзакции,
// из двух конкурирующих запросов на пересекающееся время успешен только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, business=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	// 2. Проверяем дату по правилам записи
	switch uc.policy.CheckDate(date, now) {
	case domain.DateInPast:
		uc.logger.Warn("CreateAppointment: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	case domain.DateTooFar:
		uc.logger.Warn("CreateAppointment: date %s is beyond %d days", date.Format(domain.DateFormat), uc.policy.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.policy.AdvanceBookingDays)
	}

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateAppointment: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(business.ID) {
		uc.logger.Warn("CreateAppointment: service id=%d is not bookable at business id=%d", service.ID, business.ID)
		return nil, ErrServiceNotFound
	}

	var result *domain.Appointment

	// 5. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Окно работы на дату с учетом исключений
		window, err := uc.scheduleRepo.GetEffectiveWindow(txCtx, business.ID, date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get operating window: %v", err)
			return fmt.Errorf("%w: failed to get operating window: %w", ErrInternal, err)
		}

		// 5.2. Активные записи на дату с блокировкой (FOR UPDATE)
		booked, err := uc.appointmentRepo.GetBookedIntervals(txCtx, business.ID, date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get booked intervals: %v", err)
			return fmt.Errorf("%w: failed to get booked intervals: %w", ErrInternal, err)
		}

		// 5.3. Правила расписания
		endTime, err := uc.evaluate(window, business.SlotGranularityMinutes, service.DurationMinutes, booked, req.StartTime, date, now)
		if err != nil {
			return err
		}

		// 5.4. Сохраняем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			BusinessID:      business.ID,
			CustomerID:      req.CustomerID,
			ServiceID:       service.ID,
			BookingDate:     date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				// Конкурирующая транзакция успела вставить пересекающуюся запись
				return rejectionError(slotengine.ReasonConflict)
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if reason, ok := slotengine.ReasonOf(err); ok {
			uc.logger.Warn("CreateAppointment: business id=%d, %s %s rejected: %s",
				business.ID, date.Format(domain.DateFormat), req.StartTime, reason)
			uc.metrics.RecordBookingRejected(string(reason))
			return nil, err
		}
		if errors.Is(err, ErrInternal) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.RecordBookingCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

// evaluate применяет правила движка, затем политику выравнивания и минимального интервала
func (uc *UseCase) evaluate(
	window slotengine.OperatingWindow,
	granularity, duration int,
	booked []slotengine.BookedInterval,
	start types.TimeString,
	date, now time.Time,
) (types.TimeString, error) {
	endTime, err := slotengine.ValidateBookingRequest(window, granularity, duration, booked, start)
	if err != nil {
		if reason, ok := slotengine.ReasonOf(err); ok {
			return "", rejectionError(reason)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if uc.policy.EnforceAlignment && !slotengine.IsAligned(window, granularity, start) {
		return "", rejectionError(slotengine.ReasonMisalignedStart)
	}

	if earliest, ok := uc.policy.EarliestStart(date, now); ok && start.IsBefore(earliest) {
		return "", rejectionError(slotengine.ReasonTooSoon)
	}

	return endTime, nil
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		CustomerID:      a.CustomerID,
		ServiceID:       a.ServiceID,
		BookingDate:     a.BookingDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
