package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис для работы с расписанием бизнеса
type Service struct {
	scheduleRepo ScheduleRepository
	businessRepo BusinessRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		businessRepo: businessRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule возвращает недельное расписание и исключения начиная с даты from.
// Публичный метод, отключенный бизнес не показывается
func (s *Service) GetSchedule(ctx context.Context, businessID int64, from time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for business=%d from %s", businessID, from.Format(domain.DateFormat))

	business, err := s.getBusiness(ctx, "GetSchedule", businessID)
	if err != nil {
		return nil, err
	}
	if !business.IsActive {
		return nil, ErrBusinessNotFound
	}

	hours, err := s.scheduleRepo.GetWeeklyHours(ctx, businessID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get weekly hours for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	overrides, err := s.scheduleRepo.ListOverrides(ctx, businessID, domain.DateOnly(from))
	if err != nil {
		s.logger.Error("GetSchedule: failed to list overrides for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(&domain.Schedule{
		BusinessID: businessID,
		Hours:      hours,
		Overrides:  overrides,
	}), nil
}

// SetWeeklyHours заменяет недельное расписание бизнеса.
// Доступно владельцу бизнеса и администратору платформы
func (s *Service) SetWeeklyHours(ctx context.Context, caller domain.Caller, businessID int64, req *models.SetWeeklyHoursRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("SetWeeklyHours: business=%d, days=%d by user=%d", businessID, len(req.Days), caller.UserID)

	if err := s.checkManageAccess(ctx, "SetWeeklyHours", caller, businessID); err != nil {
		return nil, err
	}

	hours, err := toWeeklyHours(businessID, req.Days)
	if err != nil {
		s.logger.Warn("SetWeeklyHours: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceWeeklyHours(txCtx, businessID, hours)
	})
	if err != nil {
		s.logger.Error("SetWeeklyHours: failed to replace hours for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: SetWeeklyHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetWeeklyHours: replaced weekly hours for business=%d", businessID)
	return models.FromDomainSchedule(&domain.Schedule{
		BusinessID: businessID,
		Hours:      hours,
	}), nil
}

// UpsertOverride создает или заменяет исключение расписания на дату
func (s *Service) UpsertOverride(ctx context.Context, caller domain.Caller, businessID int64, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("UpsertOverride: business=%d, date=%s, closed=%t by user=%d",
		businessID, req.Date.Format(domain.DateFormat), req.IsClosed, caller.UserID)

	if err := s.checkManageAccess(ctx, "UpsertOverride", caller, businessID); err != nil {
		return nil, err
	}

	override := req.ToDomainOverride(businessID)
	if err := override.ToEngine().Validate(); err != nil {
		s.logger.Warn("UpsertOverride: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if override.Reason != nil && utf8.RuneCountInString(*override.Reason) > domain.MaxOverrideReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxOverrideReasonLength)
	}

	saved, err := s.scheduleRepo.UpsertOverride(ctx, override)
	if err != nil {
		s.logger.Error("UpsertOverride: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: UpsertOverride - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainOverride(*saved)
	return &resp, nil
}

// DeleteOverride удаляет исключение расписания на дату
func (s *Service) DeleteOverride(ctx context.Context, caller domain.Caller, businessID int64, date time.Time) error {
	s.logger.Info("DeleteOverride: business=%d, date=%s by user=%d", businessID, date.Format(domain.DateFormat), caller.UserID)

	if err := s.checkManageAccess(ctx, "DeleteOverride", caller, businessID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteOverride(ctx, businessID, domain.DateOnly(date)); err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	return nil
}

// toWeeklyHours проверяет дни расписания и конвертирует их в domain модели
func toWeeklyHours(businessID int64, days []models.DayHours) ([]domain.OperatingHours, error) {
	seen := make(map[int]bool, len(days))
	hours := make([]domain.OperatingHours, 0, len(days))

	for _, d := range days {
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("%w: day %d is listed twice", ErrInvalidInput, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true

		h := d.ToDomainHours(businessID)
		if err := h.ToWindow().Validate(); err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidInput, d.DayOfWeek, err)
		}
		hours = append(hours, h)
	}

	return hours, nil
}

func (s *Service) getBusiness(ctx context.Context, op string, id int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, id)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}
	return business, nil
}

func (s *Service) checkManageAccess(ctx context.Context, op string, caller domain.Caller, businessID int64) error {
	business, err := s.getBusiness(ctx, op, businessID)
	if err != nil {
		return err
	}
	if !caller.CanManage(business) {
		s.logger.Warn("%s: user=%d cannot manage business=%d", op, caller.UserID, businessID)
		return ErrAccessDenied
	}
	return nil
}
