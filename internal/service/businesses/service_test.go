package businesses

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockBusinessRepo struct{ mock.Mock }

func (m *mockBusinessRepo) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	args := m.Called(ctx, business)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) List(ctx context.Context, activeOnly bool, limit, offset uint64) ([]*domain.Business, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	return args.Get(0).([]*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) UpdateSettings(ctx context.Context, id int64, name *string, granularityMinutes *int) error {
	return m.Called(ctx, id, name, granularityMinutes).Error(0)
}

func (m *mockBusinessRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockServiceRepo) ListByBusiness(ctx context.Context, businessID int64, activeOnly bool) ([]*domain.Service, error) {
	args := m.Called(ctx, businessID, activeOnly)
	return args.Get(0).([]*domain.Service), args.Error(1)
}

var (
	owner = domain.Caller{UserID: 10, Role: domain.RoleBusinessOwner}
	admin = domain.Caller{UserID: 1, Role: domain.RolePlatformAdmin}
)

func business() *domain.Business {
	return &domain.Business{ID: 3, Slug: "barber-one", Name: "Barber One", OwnerID: 10, SlotGranularityMinutes: 30, IsActive: true}
}

func TestService_GetBySlug(t *testing.T) {
	businesses := new(mockBusinessRepo)
	services := new(mockServiceRepo)
	businesses.On("GetBySlug", mock.Anything, "barber-one").Return(business(), nil)
	services.On("ListByBusiness", mock.Anything, int64(3), true).Return([]*domain.Service{
		{ID: 5, BusinessID: 3, Name: "Стрижка", DurationMinutes: 60, Price: 1500, IsActive: true},
	}, nil)
	svc := NewService(businesses, services, logger.Nop())

	page, err := svc.GetBySlug(context.Background(), "barber-one")

	require.NoError(t, err)
	assert.Equal(t, "Barber One", page.Business.Name)
	require.Len(t, page.Services, 1)
	assert.Equal(t, 60, page.Services[0].DurationMinutes)
}

func TestService_GetBySlug_Inactive(t *testing.T) {
	businesses := new(mockBusinessRepo)
	inactive := business()
	inactive.IsActive = false
	businesses.On("GetBySlug", mock.Anything, "barber-one").Return(inactive, nil)
	businesses.On("GetBySlug", mock.Anything, "missing").Return(nil, businessRepo.ErrBusinessNotFound)
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	_, err := svc.GetBySlug(context.Background(), "barber-one")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestService_UpdateSettings(t *testing.T) {
	businesses := new(mockBusinessRepo)
	updated := business()
	updated.SlotGranularityMinutes = 15
	businesses.On("GetByID", mock.Anything, int64(3)).Return(business(), nil).Once()
	businesses.On("UpdateSettings", mock.Anything, int64(3), (*string)(nil), ptr.Ptr(15)).Return(nil)
	businesses.On("GetByID", mock.Anything, int64(3)).Return(updated, nil).Once()
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	resp, err := svc.UpdateSettings(context.Background(), owner, 3, &models.UpdateSettingsRequest{SlotGranularityMinutes: ptr.Ptr(15)})

	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotGranularityMinutes)
	businesses.AssertExpectations(t)
}

func TestService_UpdateSettings_Validation(t *testing.T) {
	svc := NewService(new(mockBusinessRepo), new(mockServiceRepo), logger.Nop())

	for _, minutes := range []int{0, 4, 241} {
		_, err := svc.UpdateSettings(context.Background(), owner, 3, &models.UpdateSettingsRequest{SlotGranularityMinutes: ptr.Ptr(minutes)})
		assert.ErrorIs(t, err, ErrInvalidInput, minutes)
	}

	_, err := svc.UpdateSettings(context.Background(), owner, 3, &models.UpdateSettingsRequest{Name: ptr.Ptr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateSettings_Forbidden(t *testing.T) {
	businesses := new(mockBusinessRepo)
	businesses.On("GetByID", mock.Anything, int64(3)).Return(business(), nil)
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	_, err := svc.UpdateSettings(context.Background(), domain.Caller{UserID: 99, Role: domain.RoleBusinessOwner}, 3,
		&models.UpdateSettingsRequest{Name: ptr.Ptr("New")})

	assert.ErrorIs(t, err, ErrAccessDenied)
	businesses.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateService(t *testing.T) {
	businesses := new(mockBusinessRepo)
	services := new(mockServiceRepo)
	businesses.On("GetByID", mock.Anything, int64(3)).Return(business(), nil)
	services.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.BusinessID == 3 && s.Name == "Окрашивание" && s.DurationMinutes == 90 && s.IsActive
	})).Return(&domain.Service{ID: 8, BusinessID: 3, Name: "Окрашивание", DurationMinutes: 90, Price: 3000, IsActive: true}, nil)
	svc := NewService(businesses, services, logger.Nop())

	resp, err := svc.CreateService(context.Background(), owner, 3, &models.CreateServiceRequest{
		Name: " Окрашивание ", DurationMinutes: 90, Price: 3000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.ID)

	_, err = svc.CreateService(context.Background(), owner, 3, &models.CreateServiceRequest{Name: "x", DurationMinutes: 721})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Create(t *testing.T) {
	businesses := new(mockBusinessRepo)
	businesses.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Business) bool {
		return b.Slug == "new-place" && b.SlotGranularityMinutes == domain.DefaultSlotGranularityMinutes
	})).Return(&domain.Business{ID: 4, Slug: "new-place", Name: "New", OwnerID: 20, SlotGranularityMinutes: 30, IsActive: true}, nil)
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	resp, err := svc.Create(context.Background(), admin, &models.CreateBusinessRequest{Slug: "New-Place", Name: "New", OwnerID: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.ID)
}

func TestService_Create_Errors(t *testing.T) {
	businesses := new(mockBusinessRepo)
	businesses.On("Create", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Create - slug %q", businessRepo.ErrSlugTaken, "taken"))
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	_, err := svc.Create(context.Background(), owner, &models.CreateBusinessRequest{Slug: "a", Name: "A", OwnerID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Create(context.Background(), admin, &models.CreateBusinessRequest{Slug: "bad slug!", Name: "A", OwnerID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), admin, &models.CreateBusinessRequest{Slug: "taken", Name: "A", OwnerID: 1})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestService_ListAndSetActive(t *testing.T) {
	businesses := new(mockBusinessRepo)
	businesses.On("List", mock.Anything, true, uint64(20), uint64(0)).Return([]*domain.Business{business()}, nil)
	businesses.On("SetActive", mock.Anything, int64(3), false).Return(nil)
	businesses.On("SetActive", mock.Anything, int64(404), true).Return(businessRepo.ErrBusinessNotFound)
	svc := NewService(businesses, new(mockServiceRepo), logger.Nop())

	list, err := svc.List(context.Background(), admin, &models.ListRequest{ActiveOnly: true, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, list.Businesses, 1)

	_, err = svc.List(context.Background(), owner, &models.ListRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.NoError(t, svc.SetActive(context.Background(), admin, 3, false))
	assert.ErrorIs(t, svc.SetActive(context.Background(), admin, 404, true), ErrBusinessNotFound)
	assert.ErrorIs(t, svc.SetActive(context.Background(), owner, 3, false), ErrAccessDenied)
}
