package schedule

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func hoursRow(open, closing, breakStart, breakEnd interface{}, closed bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(hoursColumns).
		AddRow(int64(1), int64(1), int64(time.Monday), open, closing, breakStart, breakEnd, closed, now, now)
}

func TestRepository_GetEffectiveWindow_WeeklyOnly(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM operating_hours WHERE business_id = $1 AND day_of_week = $2")).
		WithArgs(int64(1), 1).
		WillReturnRows(hoursRow("09:00:00", "17:00:00", "12:00:00", "13:00:00", false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_overrides")).
		WithArgs(int64(1), "2026-03-02").
		WillReturnRows(sqlmock.NewRows(overrideColumns))

	window, err := repo.GetEffectiveWindow(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.Equal(t, time.Monday, window.DayOfWeek)
	assert.Equal(t, types.TimeString("09:00"), window.OpenTime)
	assert.Equal(t, types.TimeString("12:00"), window.BreakStart)
	assert.False(t, window.IsClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetEffectiveWindow_NoWeeklyRowIsClosed(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM operating_hours")).
		WillReturnRows(sqlmock.NewRows(hoursColumns))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_overrides")).
		WillReturnRows(sqlmock.NewRows(overrideColumns))

	window, err := repo.GetEffectiveWindow(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.True(t, window.IsClosed)
	assert.False(t, window.HasHours())
}

func TestRepository_GetEffectiveWindow_OverrideWins(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM operating_hours")).
		WillReturnRows(hoursRow("09:00:00", "17:00:00", "12:00:00", "13:00:00", false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_overrides")).
		WillReturnRows(sqlmock.NewRows(overrideColumns).
			AddRow(int64(5), int64(1), monday, "10:00:00", "14:00:00", false, "short day", now, now))

	window, err := repo.GetEffectiveWindow(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), window.OpenTime)
	assert.Equal(t, types.TimeString("14:00"), window.CloseTime)
	assert.False(t, window.HasBreak())
}

func TestRepository_ReplaceWeeklyHours(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM operating_hours WHERE business_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO operating_hours (business_id,day_of_week,open_time,close_time,break_start,break_end,is_closed) VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")).
		WithArgs(
			int64(1), 1, "09:00", "17:00", "12:00", "13:00", false,
			int64(1), 0, nil, nil, nil, nil, true,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.ReplaceWeeklyHours(context.Background(), 1, []domain.OperatingHours{
		{
			DayOfWeek:  time.Monday,
			OpenTime:   "09:00",
			CloseTime:  "17:00",
			BreakStart: "12:00",
			BreakEnd:   "13:00",
		},
		{DayOfWeek: time.Sunday, IsClosed: true},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertOverride(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO schedule_overrides .* ON CONFLICT \(business_id, override_date\) DO UPDATE`).
		WithArgs(int64(1), "2026-03-02", nil, nil, true, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))

	override, err := repo.UpsertOverride(context.Background(), &domain.ScheduleOverride{
		BusinessID: 1,
		Date:       monday,
		IsClosed:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), override.ID)
}

func TestRepository_DeleteOverride_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_overrides")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOverride(context.Background(), 1, monday)
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}
