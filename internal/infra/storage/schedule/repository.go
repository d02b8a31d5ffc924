package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	hoursTable     = "operating_hours"
	overridesTable = "schedule_overrides"
)

var hoursColumns = []string{
	"id",
	"business_id",
	"day_of_week",
	"open_time",
	"close_time",
	"break_start",
	"break_end",
	"is_closed",
	"created_at",
	"updated_at",
}

var overrideColumns = []string{
	"id",
	"business_id",
	"override_date",
	"open_time",
	"close_time",
	"is_closed",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий расписания: недельные часы работы и исключения по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetEffectiveWindow возвращает окно работы бизнеса на дату с учетом исключения.
// Если для дня недели нет строки расписания, день считается выходным.
func (r *Repository) GetEffectiveWindow(ctx context.Context, businessID int64, date time.Time) (slotengine.OperatingWindow, error) {
	weekly := slotengine.ClosedWindow(date.Weekday())

	hours, err := r.GetHoursForDay(ctx, businessID, date.Weekday())
	switch {
	case err == nil:
		weekly = hours.ToWindow()
	case !errors.Is(err, ErrHoursNotFound):
		return slotengine.OperatingWindow{}, err
	}

	override, err := r.GetOverride(ctx, businessID, date)
	if errors.Is(err, ErrOverrideNotFound) {
		return weekly, nil
	}
	if err != nil {
		return slotengine.OperatingWindow{}, err
	}

	engineOverride := override.ToEngine()
	return slotengine.EffectiveWindow(weekly, &engineOverride), nil
}

// GetWeeklyHours возвращает недельное расписание бизнеса, упорядоченное по дню недели
func (r *Repository) GetWeeklyHours(ctx context.Context, businessID int64) ([]domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From(hoursTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.OperatingHours, 0, 7)
	for rows.Next() {
		h, err := scanHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, *h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyHours - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}

// GetHoursForDay возвращает строку расписания для дня недели
func (r *Repository) GetHoursForDay(ctx context.Context, businessID int64, day time.Weekday) (*domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From(hoursTable).
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHoursForDay - build select query: %v", ErrBuildQuery, err)
	}

	hours, err := scanHours(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetHoursForDay - scan hours: %w", ErrScanRow, err)
	}

	return hours, nil
}

// ReplaceWeeklyHours заменяет недельное расписание целиком.
// Должен вызываться внутри транзакции, иначе читатели могут увидеть пустое расписание.
func (r *Repository) ReplaceWeeklyHours(ctx context.Context, businessID int64, hours []domain.OperatingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(hoursTable).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - execute delete: %w", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(hoursTable).
		Columns("business_id", "day_of_week", "open_time", "close_time", "break_start", "break_end", "is_closed")

	for _, h := range hours {
		insertBuilder = insertBuilder.Values(businessID, int(h.DayOfWeek), h.OpenTime, h.CloseTime, h.BreakStart, h.BreakEnd, h.IsClosed)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyHours - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetOverride возвращает исключение расписания на дату
func (r *Repository) GetOverride(ctx context.Context, businessID int64, date time.Time) (*domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From(overridesTable).
		Where(squirrel.Eq{"business_id": businessID, "override_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %w", ErrScanRow, err)
	}

	return override, nil
}

// ListOverrides возвращает исключения начиная с даты from, по возрастанию даты
func (r *Repository) ListOverrides(ctx context.Context, businessID int64, from time.Time) ([]domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From(overridesTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"override_date": from.Format(domain.DateFormat)}).
		OrderBy("override_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.ScheduleOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// UpsertOverride создает исключение на дату или заменяет существующее
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.ScheduleOverride) (*domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(overridesTable).
		Columns("business_id", "override_date", "open_time", "close_time", "is_closed", "reason").
		Values(
			override.BusinessID,
			override.Date.Format(domain.DateFormat),
			override.OpenTime,
			override.CloseTime,
			override.IsClosed,
			override.Reason,
		).
		Suffix(`ON CONFLICT (business_id, override_date) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			is_closed = EXCLUDED.is_closed,
			reason = EXCLUDED.reason,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&override.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute insert: %w", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// DeleteOverride удаляет исключение на дату
func (r *Repository) DeleteOverride(ctx context.Context, businessID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(overridesTable).
		Where(squirrel.Eq{"business_id": businessID, "override_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHours(row rowScanner) (*domain.OperatingHours, error) {
	var h domain.OperatingHours
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.BusinessID,
		&h.DayOfWeek,
		&h.OpenTime,
		&h.CloseTime,
		&h.BreakStart,
		&h.BreakEnd,
		&h.IsClosed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func scanOverride(row rowScanner) (*domain.ScheduleOverride, error) {
	var o domain.ScheduleOverride
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.BusinessID,
		&o.Date,
		&o.OpenTime,
		&o.CloseTime,
		&o.IsClosed,
		&o.Reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
