package appointment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newTestRepository(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), db, mock
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		BusinessID:      1,
		CustomerID:      20,
		ServiceID:       3,
		BookingDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		ServiceName:     "Haircut",
		ServicePrice:    1500,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(int64(1), int64(20), int64(3), "2026-03-02", "10:00", "11:00", 60, "pending", "Haircut", 1500.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	appt, err := repo.Create(context.Background(), newAppointment())

	require.NoError(t, err)
	assert.Equal(t, int64(7), appt.ID)
	assert.Equal(t, now, appt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})

	_, err := repo.Create(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SerializationFailureIsRetryable(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Create(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsSerializationFailure(err))
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	now := time.Now()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(7), int64(1), int64(20), int64(3), date, "10:00:00", "11:00:00", int64(60),
			"confirmed", "Haircut", 1500.0, "first visit", nil, nil, now, now,
		))

	appt, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), appt.StartTime)
	assert.Equal(t, types.TimeString("11:00"), appt.EndTime)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	require.NotNil(t, appt.Notes)
	assert.Equal(t, "first visit", *appt.Notes)
	assert.Nil(t, appt.CancelledAt)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetBookedIntervals(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT start_time, end_time FROM appointments WHERE .*status IN \(\$3,\$4\) ORDER BY start_time ASC$`).
		WithArgs("2026-03-02", int64(1), "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).
			AddRow("10:00:00", "11:00:00").
			AddRow("14:30:00", "15:00:00").
			AddRow(time.Date(0, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))

	intervals, err := repo.GetBookedIntervals(context.Background(), 1, date)

	require.NoError(t, err)
	assert.Equal(t, []slotengine.BookedInterval{
		{Start: "10:00", End: "11:00"},
		{Start: "14:30", End: "15:00"},
		{Start: "23:00", End: "24:00"},
	}, intervals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetBookedIntervals_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`ORDER BY start_time ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}))

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	intervals, err := repo.GetBookedIntervals(ctx, 1, time.Now())

	require.NoError(t, err)
	assert.Empty(t, intervals)
	assert.NotNil(t, intervals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByBusinessWithFilter(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	confirmed := domain.StatusConfirmed

	tests := []struct {
		name    string
		filter  domain.BusinessAppointmentsFilter
		pattern string
	}{
		{
			name:    "single day active only",
			filter:  domain.BusinessAppointmentsFilter{BusinessID: 1, StartDate: &day, EndDate: &day},
			pattern: `status IN \(\$\d,\$\d\) ORDER BY start_time ASC$`,
		},
		{
			name:    "explicit status",
			filter:  domain.BusinessAppointmentsFilter{BusinessID: 1, Status: &confirmed},
			pattern: `status = \$2 ORDER BY booking_date DESC, start_time DESC$`,
		},
		{
			name:    "include inactive",
			filter:  domain.BusinessAppointmentsFilter{BusinessID: 1, IncludeInactive: true},
			pattern: `WHERE business_id = \$1 ORDER BY booking_date DESC, start_time DESC$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newTestRepository(t)

			mock.ExpectQuery(tt.pattern).WillReturnRows(sqlmock.NewRows(columns))

			result, err := repo.GetByBusinessWithFilter(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Empty(t, result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Cancel(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	reason := "sick"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = NOW()")).
		WithArgs("cancelled_by_customer", reason, int64(7), "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 7, domain.StatusCancelledByCustomer, &reason)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
