package businesses

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service сервис для работы с бизнесами и их каталогом услуг
type Service struct {
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бизнесов
func NewService(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		logger:       logger,
	}
}

// GetBySlug возвращает публичную страницу бизнеса с активными услугами
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.BusinessPageResponse, error) {
	s.logger.Info("GetBySlug: fetching business slug=%s", slug)

	business, err := s.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, s.mapBusinessError("GetBySlug", err)
	}
	if !business.IsActive {
		s.logger.Warn("GetBySlug: business slug=%s is inactive", slug)
		return nil, ErrBusinessNotFound
	}

	services, err := s.serviceRepo.ListByBusiness(ctx, business.ID, true)
	if err != nil {
		s.logger.Error("GetBySlug: failed to list services for business=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: GetBySlug - repository error: %v", ErrInternal, err)
	}

	page := &models.BusinessPageResponse{
		Business: *models.FromDomainBusiness(business),
		Services: make([]models.ServiceResponse, 0, len(services)),
	}
	for _, svc := range services {
		page.Services = append(page.Services, *models.FromDomainService(svc))
	}

	return page, nil
}

// UpdateSettings меняет название и шаг сетки слотов бизнеса
func (s *Service) UpdateSettings(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateSettingsRequest) (*models.BusinessResponse, error) {
	s.logger.Info("UpdateSettings: business=%d by user=%d", id, caller.UserID)

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		req.Name = &trimmed
	}
	if req.SlotGranularityMinutes != nil {
		if err := validateGranularity(*req.SlotGranularityMinutes); err != nil {
			return nil, err
		}
	}

	business, err := s.getManaged(ctx, "UpdateSettings", caller, id)
	if err != nil {
		return nil, err
	}

	if req.Name == nil && req.SlotGranularityMinutes == nil {
		return models.FromDomainBusiness(business), nil
	}

	if err := s.businessRepo.UpdateSettings(ctx, id, req.Name, req.SlotGranularityMinutes); err != nil {
		return nil, s.mapBusinessError("UpdateSettings", err)
	}

	updated, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapBusinessError("UpdateSettings", err)
	}

	s.logger.Info("UpdateSettings: updated business=%d", id)
	return models.FromDomainBusiness(updated), nil
}

// CreateService добавляет услугу в каталог бизнеса
func (s *Service) CreateService(ctx context.Context, caller domain.Caller, businessID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: business=%d, name=%s by user=%d", businessID, req.Name, caller.UserID)

	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxServiceNameLength {
		return nil, fmt.Errorf("%w: service name must be 1..%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if _, err := s.getManaged(ctx, "CreateService", caller, businessID); err != nil {
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, &domain.Service{
		BusinessID:      businessID,
		Name:            name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	})
	if err != nil {
		s.logger.Error("CreateService: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%d for business=%d", created.ID, businessID)
	return models.FromDomainService(created), nil
}

// Create регистрирует новый бизнес. Доступно только администратору платформы
func (s *Service) Create(ctx context.Context, caller domain.Caller, req *models.CreateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Create: slug=%s, owner=%d by user=%d", req.Slug, req.OwnerID, caller.UserID)

	if !caller.IsPlatformAdmin() {
		return nil, ErrAccessDenied
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if len(slug) > domain.MaxSlugLength || !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug must be lowercase latin letters, digits and dashes", ErrInvalidInput)
	}
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: ownerId must be positive", ErrInvalidInput)
	}

	granularity := domain.DefaultSlotGranularityMinutes
	if req.SlotGranularityMinutes != nil {
		if err := validateGranularity(*req.SlotGranularityMinutes); err != nil {
			return nil, err
		}
		granularity = *req.SlotGranularityMinutes
	}

	created, err := s.businessRepo.Create(ctx, &domain.Business{
		Slug:                   slug,
		Name:                   name,
		OwnerID:                req.OwnerID,
		SlotGranularityMinutes: granularity,
		IsActive:               true,
	})
	if err != nil {
		if errors.Is(err, businessRepo.ErrSlugTaken) {
			s.logger.Warn("Create: slug=%s already taken", slug)
			return nil, ErrSlugTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created business id=%d", created.ID)
	return models.FromDomainBusiness(created), nil
}

// List возвращает бизнесы платформы. Доступно только администратору платформы
func (s *Service) List(ctx context.Context, caller domain.Caller, req *models.ListRequest) (*models.BusinessListResponse, error) {
	s.logger.Info("List: activeOnly=%t, limit=%d, offset=%d by user=%d", req.ActiveOnly, req.Limit, req.Offset, caller.UserID)

	if !caller.IsPlatformAdmin() {
		return nil, ErrAccessDenied
	}

	list, err := s.businessRepo.List(ctx, req.ActiveOnly, req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.BusinessListResponse{Businesses: make([]models.BusinessResponse, 0, len(list))}
	for _, b := range list {
		resp.Businesses = append(resp.Businesses, *models.FromDomainBusiness(b))
	}
	return resp, nil
}

// SetActive включает или отключает бизнес. Отключенный бизнес не принимает записи
func (s *Service) SetActive(ctx context.Context, caller domain.Caller, id int64, active bool) error {
	s.logger.Info("SetActive: business=%d, active=%t by user=%d", id, active, caller.UserID)

	if !caller.IsPlatformAdmin() {
		return ErrAccessDenied
	}

	if err := s.businessRepo.SetActive(ctx, id, active); err != nil {
		return s.mapBusinessError("SetActive", err)
	}
	return nil
}

// Вспомогательные методы

func (s *Service) getManaged(ctx context.Context, op string, caller domain.Caller, id int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapBusinessError(op, err)
	}
	if !caller.CanManage(business) {
		s.logger.Warn("%s: user=%d cannot manage business=%d", op, caller.UserID, id)
		return nil, ErrAccessDenied
	}
	return business, nil
}

func (s *Service) mapBusinessError(op string, err error) error {
	if errors.Is(err, businessRepo.ErrBusinessNotFound) {
		s.logger.Warn("%s: business not found", op)
		return ErrBusinessNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > domain.MaxBusinessNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxBusinessNameLength)
	}
	return nil
}

func validateGranularity(minutes int) error {
	if minutes < domain.MinSlotGranularityMinutes || minutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slot granularity must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	return nil
}
