package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetWeeklyHours(ctx context.Context, businessID int64) ([]domain.OperatingHours, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]domain.OperatingHours), args.Error(1)
}

func (m *mockScheduleRepo) ReplaceWeeklyHours(ctx context.Context, businessID int64, hours []domain.OperatingHours) error {
	return m.Called(ctx, businessID, hours).Error(0)
}

func (m *mockScheduleRepo) ListOverrides(ctx context.Context, businessID int64, from time.Time) ([]domain.ScheduleOverride, error) {
	args := m.Called(ctx, businessID, from)
	return args.Get(0).([]domain.ScheduleOverride), args.Error(1)
}

func (m *mockScheduleRepo) UpsertOverride(ctx context.Context, override *domain.ScheduleOverride) (*domain.ScheduleOverride, error) {
	args := m.Called(ctx, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleOverride), args.Error(1)
}

func (m *mockScheduleRepo) DeleteOverride(ctx context.Context, businessID int64, date time.Time) error {
	return m.Called(ctx, businessID, date).Error(0)
}

type mockBusinessRepo struct{ mock.Mock }

func (m *mockBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

type txKey struct{}

// inlineTx выполняет функцию сразу, помечая контекст как транзакционный
type inlineTx struct{ calls int }

func (tx *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

var owner = domain.Caller{UserID: 10, Role: domain.RoleBusinessOwner}

func newService() (*Service, *mockScheduleRepo, *mockBusinessRepo, *inlineTx) {
	schedules := new(mockScheduleRepo)
	businesses := new(mockBusinessRepo)
	businesses.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Business{ID: 1, OwnerID: 10, IsActive: true}, nil).Maybe()
	businesses.On("GetByID", mock.Anything, int64(404)).
		Return(nil, businessRepo.ErrBusinessNotFound).Maybe()
	tx := &inlineTx{}
	return NewService(schedules, businesses, tx, logger.Nop()), schedules, businesses, tx
}

func TestService_GetSchedule(t *testing.T) {
	svc, schedules, _, _ := newService()
	from := time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	schedules.On("GetWeeklyHours", mock.Anything, int64(1)).Return([]domain.OperatingHours{
		{DayOfWeek: time.Monday, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "13:00", BreakEnd: "14:00"},
		{DayOfWeek: time.Sunday, IsClosed: true},
	}, nil)
	schedules.On("ListOverrides", mock.Anything, int64(1), day).Return([]domain.ScheduleOverride{
		{Date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), IsClosed: true, Reason: ptr.Ptr("праздник")},
	}, nil)

	resp, err := svc.GetSchedule(context.Background(), 1, from)

	require.NoError(t, err)
	require.Len(t, resp.Hours, 2)
	assert.Equal(t, 1, resp.Hours[0].DayOfWeek)
	assert.Equal(t, "13:00", resp.Hours[0].BreakStart.String())
	require.Len(t, resp.Overrides, 1)
	assert.Equal(t, "2026-03-08", resp.Overrides[0].Date)
}

func TestService_GetSchedule_NotFound(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.GetSchedule(context.Background(), 404, time.Now())

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestService_SetWeeklyHours(t *testing.T) {
	svc, schedules, _, tx := newService()
	schedules.On("ReplaceWeeklyHours", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(txKey{}) != nil
	}), int64(1), mock.MatchedBy(func(hours []domain.OperatingHours) bool {
		return len(hours) == 2 && hours[1].IsClosed && hours[1].OpenTime.IsZero()
	})).Return(nil)

	resp, err := svc.SetWeeklyHours(context.Background(), owner, 1, &models.SetWeeklyHoursRequest{Days: []models.DayHours{
		{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "13:00", BreakEnd: "14:00"},
		{DayOfWeek: 0, OpenTime: "10:00", CloseTime: "12:00", IsClosed: true},
	}})

	require.NoError(t, err)
	assert.Len(t, resp.Hours, 2)
	assert.Equal(t, 1, tx.calls)
	schedules.AssertExpectations(t)
}

func TestService_SetWeeklyHours_Invalid(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayHours
	}{
		{name: "close before open", days: []models.DayHours{{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "09:00"}}},
		{name: "break outside hours", days: []models.DayHours{{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "08:00", BreakEnd: "08:30"}}},
		{name: "half break", days: []models.DayHours{{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "13:00"}}},
		{name: "missing hours", days: []models.DayHours{{DayOfWeek: 2}}},
		{name: "duplicate day", days: []models.DayHours{
			{DayOfWeek: 1, IsClosed: true},
			{DayOfWeek: 1, IsClosed: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, schedules, _, _ := newService()

			_, err := svc.SetWeeklyHours(context.Background(), owner, 1, &models.SetWeeklyHoursRequest{Days: tt.days})

			assert.ErrorIs(t, err, ErrInvalidInput)
			schedules.AssertNotCalled(t, "ReplaceWeeklyHours", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_SetWeeklyHours_Forbidden(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.SetWeeklyHours(context.Background(), domain.Caller{UserID: 11, Role: domain.RoleBusinessOwner}, 1, &models.SetWeeklyHoursRequest{})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpsertOverride(t *testing.T) {
	svc, schedules, _, _ := newService()
	date := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	schedules.On("UpsertOverride", mock.Anything, mock.MatchedBy(func(o *domain.ScheduleOverride) bool {
		return o.BusinessID == 1 && o.Date.Equal(date) && o.OpenTime == "10:00" && o.CloseTime == "15:00"
	})).Return(&domain.ScheduleOverride{ID: 3, BusinessID: 1, Date: date, OpenTime: "10:00", CloseTime: "15:00"}, nil)

	resp, err := svc.UpsertOverride(context.Background(), owner, 1, &models.UpsertOverrideRequest{
		Date: date, OpenTime: "10:00", CloseTime: "15:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-07", resp.Date)
	assert.False(t, resp.IsClosed)
}

func TestService_UpsertOverride_Invalid(t *testing.T) {
	svc, _, _, _ := newService()
	date := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	_, err := svc.UpsertOverride(context.Background(), owner, 1, &models.UpsertOverrideRequest{Date: date, OpenTime: "15:00", CloseTime: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpsertOverride(context.Background(), owner, 1, &models.UpsertOverrideRequest{Date: date})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_DeleteOverride(t *testing.T) {
	svc, schedules, _, _ := newService()
	date := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	missing := date.AddDate(0, 0, 1)

	schedules.On("DeleteOverride", mock.Anything, int64(1), date).Return(nil)
	schedules.On("DeleteOverride", mock.Anything, int64(1), missing).Return(scheduleRepo.ErrOverrideNotFound)

	assert.NoError(t, svc.DeleteOverride(context.Background(), owner, 1, date))
	assert.ErrorIs(t, svc.DeleteOverride(context.Background(), owner, 1, missing), ErrOverrideNotFound)
}
