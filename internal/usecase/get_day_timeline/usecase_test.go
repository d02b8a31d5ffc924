package get_day_timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockBusinessRepo struct{ mock.Mock }

func (m *mockBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetEffectiveWindow(ctx context.Context, businessID int64, date time.Time) (slotengine.OperatingWindow, error) {
	args := m.Called(ctx, businessID, date)
	return args.Get(0).(slotengine.OperatingWindow), args.Error(1)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

var (
	date     = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	owner    = domain.Caller{UserID: 10, Role: domain.RoleBusinessOwner}
	business = &domain.Business{ID: 1, OwnerID: 10, SlotGranularityMinutes: 30, IsActive: true}
	window   = slotengine.OperatingWindow{
		DayOfWeek:  time.Monday,
		OpenTime:   "09:00",
		CloseTime:  "12:00",
		BreakStart: "10:30",
		BreakEnd:   "11:00",
	}
)

func TestUseCase_Execute_Timeline(t *testing.T) {
	businesses := new(mockBusinessRepo)
	services := new(mockServiceRepo)
	schedule := new(mockScheduleRepo)
	appointments := new(mockAppointmentRepo)

	businesses.On("GetByID", mock.Anything, int64(1)).Return(business, nil)
	schedule.On("GetEffectiveWindow", mock.Anything, int64(1), date).Return(window, nil)
	appointments.On("GetByBusinessWithFilter", mock.Anything, mock.MatchedBy(func(f domain.BusinessAppointmentsFilter) bool {
		return f.BusinessID == 1 && f.IncludeInactive && f.StartDate.Equal(date) && f.EndDate.Equal(date)
	})).Return([]*domain.Appointment{
		{ID: 7, StartTime: "09:00", EndTime: "09:30", Status: domain.StatusConfirmed},
		{ID: 8, StartTime: "09:30", EndTime: "10:00", Status: domain.StatusCancelledByCustomer},
	}, nil)

	uc := NewUseCase(businesses, services, schedule, appointments, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{Caller: owner, BusinessID: 1, Date: date})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "10:30", string(resp.Window.BreakStart))
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, "cancelled_by_customer", resp.Appointments[1].Status)

	// 09:00 занят, 09:30 свободен (отмененная запись не блокирует), 10:30 перерыв
	require.Len(t, resp.Slots, 5)
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, "conflict", resp.Slots[0].Reason)
	assert.True(t, resp.Slots[1].Available)
	assert.Equal(t, "11:30", string(resp.Slots[4].StartTime))
	services.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_WithService(t *testing.T) {
	businesses := new(mockBusinessRepo)
	services := new(mockServiceRepo)
	schedule := new(mockScheduleRepo)
	appointments := new(mockAppointmentRepo)

	businesses.On("GetByID", mock.Anything, int64(1)).Return(business, nil)
	services.On("GetByID", mock.Anything, int64(5)).Return(&domain.Service{ID: 5, BusinessID: 1, DurationMinutes: 90}, nil)
	schedule.On("GetEffectiveWindow", mock.Anything, int64(1), date).Return(window, nil)
	appointments.On("GetByBusinessWithFilter", mock.Anything, mock.Anything).Return([]*domain.Appointment{}, nil)

	uc := NewUseCase(businesses, services, schedule, appointments, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:     domain.Caller{UserID: 99, Role: domain.RolePlatformAdmin},
		BusinessID: 1,
		Date:       date,
		ServiceID:  ptr.Ptr(int64(5)),
	})

	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, int64(5), *resp.ServiceID)
}

func TestUseCase_Execute_Forbidden(t *testing.T) {
	businesses := new(mockBusinessRepo)
	businesses.On("GetByID", mock.Anything, int64(1)).Return(business, nil)

	uc := NewUseCase(businesses, new(mockServiceRepo), new(mockScheduleRepo), new(mockAppointmentRepo), logger.Nop())

	for _, caller := range []domain.Caller{
		{UserID: 10, Role: domain.RoleCustomer},
		{UserID: 11, Role: domain.RoleBusinessOwner},
	} {
		_, err := uc.Execute(context.Background(), &Request{Caller: caller, BusinessID: 1, Date: date})
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestUseCase_Execute_ForeignService(t *testing.T) {
	businesses := new(mockBusinessRepo)
	services := new(mockServiceRepo)
	businesses.On("GetByID", mock.Anything, int64(1)).Return(business, nil)
	services.On("GetByID", mock.Anything, int64(5)).Return(&domain.Service{ID: 5, BusinessID: 2}, nil)

	uc := NewUseCase(businesses, services, new(mockScheduleRepo), new(mockAppointmentRepo), logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{Caller: owner, BusinessID: 1, Date: date, ServiceID: ptr.Ptr(int64(5))})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := NewUseCase(new(mockBusinessRepo), new(mockServiceRepo), new(mockScheduleRepo), new(mockAppointmentRepo), logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{Caller: owner, BusinessID: 0, Date: date})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Caller: owner, BusinessID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
