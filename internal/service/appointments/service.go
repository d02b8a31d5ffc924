package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Доступна клиенту, сделавшему запись, владельцу бизнеса и администратору платформы
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, caller.UserID)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	business, err := s.getBusiness(ctx, "GetByID", appt.BusinessID)
	if err != nil {
		return nil, err
	}

	if !caller.CanView(appt, business) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", caller.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// ListForCustomer получает записи вызывающего клиента
func (s *Service) ListForCustomer(ctx context.Context, caller domain.Caller, req *models.ListForCustomerRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForCustomer: fetching appointments for user=%d, status=%v", caller.UserID, req.Status)

	filter := domain.CustomerAppointmentsFilter{
		CustomerID: caller.UserID,
		FromDate:   req.FromDate,
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListForCustomer: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("ListForCustomer: repository error for user=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: ListForCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForCustomer: fetched %d appointments for user=%d", len(appointments), caller.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListForBusiness получает записи бизнеса с фильтрацией по периоду и статусу.
// Доступно владельцу бизнеса и администратору платформы
func (s *Service) ListForBusiness(ctx context.Context, caller domain.Caller, req *models.ListForBusinessRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForBusiness: fetching appointments for business=%d by user=%d, includeInactive=%t",
		req.BusinessID, caller.UserID, req.IncludeInactive)

	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.checkManageAccess(ctx, "ListForBusiness", caller, req.BusinessID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListForBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListForBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListForBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForBusiness: fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись.
// Клиент отменяет свою запись (cancelled_by_customer),
// владелец бизнеса или администратор - любую запись бизнеса (cancelled_by_business)
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, caller.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.getAppointment(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	var status domain.AppointmentStatus
	if appt.CustomerID == caller.UserID {
		status = domain.StatusCancelledByCustomer
	} else {
		if err := s.checkManageAccess(ctx, "Cancel", caller, appt.BusinessID); err != nil {
			return err
		}
		status = domain.StatusCancelledByBusiness
	}

	if err := s.appointmentRepo.Cancel(ctx, id, status, req.Reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Статус изменился между чтением и обновлением
			s.logger.Warn("Cancel: appointment id=%d is no longer active", id)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: cancelled appointment id=%d with status=%s", id, status)
	return nil
}

// UpdateStatus меняет статус записи по правилам переходов.
// Доступно владельцу бизнеса и администратору платформы, для отмены используется Cancel
func (s *Service) UpdateStatus(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, caller.UserID)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appt, err := s.getAppointment(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	if err := s.checkManageAccess(ctx, "UpdateStatus", caller, appt.BusinessID); err != nil {
		return err
	}

	isCancellation := next == domain.StatusCancelledByCustomer || next == domain.StatusCancelledByBusiness
	if isCancellation || !appt.Status.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d", appt.Status, next, id)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, next)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, appt.Status, next); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently", id)
			return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved %s -> %s", id, appt.Status, next)
	return nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
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

// checkManageAccess проверяет, что вызывающий управляет бизнесом
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
