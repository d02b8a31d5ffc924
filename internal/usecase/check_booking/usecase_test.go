package check_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeStore struct {
	business *domain.Business
	service  *domain.Service
	window   slotengine.OperatingWindow
	booked   []slotengine.BookedInterval

	bookedCalls int
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	return f.business, nil
}

type fakeServices struct{ store *fakeStore }

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.store.service == nil || f.store.service.ID != id {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return f.store.service, nil
}

func (f *fakeStore) GetEffectiveWindow(_ context.Context, _ int64, _ time.Time) (slotengine.OperatingWindow, error) {
	return f.window, nil
}

func (f *fakeStore) GetBookedIntervals(_ context.Context, _ int64, _ time.Time) ([]slotengine.BookedInterval, error) {
	f.bookedCalls++
	return f.booked, nil
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newUseCase(store *fakeStore, policy domain.BookingPolicy, now time.Time) *UseCase {
	uc := NewUseCase(store, fakeServices{store: store}, store, store, policy, logger.Nop())
	uc.timeProvider = fixedTime(now)
	return uc
}

func newStore() *fakeStore {
	return &fakeStore{
		business: &domain.Business{ID: 1, SlotGranularityMinutes: 30, IsActive: true},
		service:  &domain.Service{ID: 5, BusinessID: 1, DurationMinutes: 60, IsActive: true},
		window: slotengine.OperatingWindow{
			DayOfWeek:  time.Monday,
			OpenTime:   "09:00",
			CloseTime:  "18:00",
			BreakStart: "13:00",
			BreakEnd:   "14:00",
		},
		booked: []slotengine.BookedInterval{{Start: "10:00", End: "11:00"}},
	}
}

func TestUseCase_Execute(t *testing.T) {
	yesterday := monday.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		start      types.TimeString
		policy     domain.BookingPolicy
		now        time.Time
		wantOK     bool
		wantEnd    types.TimeString
		wantReason slotengine.RejectionReason
	}{
		{name: "free slot", start: "09:00", now: yesterday, wantOK: true, wantEnd: "10:00"},
		{name: "back to back with booking", start: "11:00", now: yesterday, wantOK: true, wantEnd: "12:00"},
		{name: "conflict", start: "10:30", now: yesterday, wantReason: slotengine.ReasonConflict},
		{name: "runs into break", start: "12:30", now: yesterday, wantReason: slotengine.ReasonDuringBreak},
		{name: "overruns closing", start: "17:30", now: yesterday, wantReason: slotengine.ReasonOverrunsClosing},
		{name: "before opening", start: "08:00", now: yesterday, wantReason: slotengine.ReasonOutsideHours},
		{
			name:       "misaligned when enforced",
			start:      "11:15",
			now:        yesterday,
			policy:     domain.BookingPolicy{EnforceAlignment: true},
			wantReason: slotengine.ReasonMisalignedStart,
		},
		{name: "misaligned allowed", start: "11:15", now: yesterday, wantOK: true, wantEnd: "12:15"},
		{
			name:       "too soon today",
			start:      "09:00",
			now:        monday.Add(8*time.Hour + 30*time.Minute),
			policy:     domain.BookingPolicy{MinNoticeMinutes: 60},
			wantReason: slotengine.ReasonTooSoon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(newStore(), tt.policy, tt.now)

			resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday, StartTime: tt.start})

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, resp.OK)
			assert.Equal(t, tt.wantEnd, resp.EndTime)
			assert.Equal(t, string(tt.wantReason), resp.Reason)
			if !tt.wantOK {
				assert.Equal(t, ReasonMessage(tt.wantReason), resp.Message)
			}
		})
	}
}

func TestUseCase_Execute_ClosedDay(t *testing.T) {
	store := newStore()
	store.window = slotengine.ClosedWindow(time.Monday)
	uc := newUseCase(store, domain.BookingPolicy{}, monday)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday, StartTime: "10:00"})

	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, string(slotengine.ReasonClosedDay), resp.Reason)
}

func TestUseCase_Execute_InputErrors(t *testing.T) {
	store := newStore()
	uc := newUseCase(store, domain.BookingPolicy{AdvanceBookingDays: 7}, monday)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday, StartTime: "9:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, -1), StartTime: "09:00"})
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, 8), StartTime: "09:00"})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 6, Date: monday, StartTime: "09:00"})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	assert.Zero(t, store.bookedCalls)
}

func TestReasonMessage_CoversEveryReason(t *testing.T) {
	reasons := []slotengine.RejectionReason{
		slotengine.ReasonClosedDay,
		slotengine.ReasonOutsideHours,
		slotengine.ReasonOverrunsClosing,
		slotengine.ReasonDuringBreak,
		slotengine.ReasonConflict,
		slotengine.ReasonTooSoon,
		slotengine.ReasonMisalignedStart,
	}
	for _, r := range reasons {
		_, ok := reasonMessages[r]
		assert.True(t, ok, r)
	}
	assert.NotEmpty(t, ReasonMessage("unknown"))
}
