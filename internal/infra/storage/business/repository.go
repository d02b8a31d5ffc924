package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	tableName = "businesses"

	codeUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"slug",
	"name",
	"owner_id",
	"slot_granularity_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бизнесами (тенантами)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый бизнес
func (r *Repository) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("slug", "name", "owner_id", "slot_granularity_minutes", "is_active").
		Values(business.Slug, business.Name, business.OwnerID, business.SlotGranularityMinutes, business.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&business.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
			return nil, fmt.Errorf("%w: Create - slug %q", ErrSlugTaken, business.Slug)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	business.CreatedAt = createdAt.Time
	business.UpdatedAt = updatedAt.Time

	return business, nil
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetBySlug получает бизнес по публичному slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return r.getOne(ctx, "GetBySlug", squirrel.Eq{"slug": slug})
}

// List возвращает бизнесы, отсортированные по ID. activeOnly отбрасывает отключенные.
func (r *Repository) List(ctx context.Context, activeOnly bool, limit, offset uint64) ([]*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(limit).Offset(offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	businesses := make([]*domain.Business, 0)
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return businesses, nil
}

// UpdateSettings частично обновляет настройки бизнеса. nil поля не меняются.
func (r *Repository) UpdateSettings(ctx context.Context, id int64, name *string, granularityMinutes *int) error {
	updateBuilder := psqlbuilder.Update(tableName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if name != nil {
		updateBuilder = updateBuilder.Set("name", *name)
	}
	if granularityMinutes != nil {
		updateBuilder = updateBuilder.Set("slot_granularity_minutes", *granularityMinutes)
	}

	return r.execUpdate(ctx, "UpdateSettings", updateBuilder)
}

// SetActive включает или отключает бизнес
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	updateBuilder := psqlbuilder.Update(tableName).
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "SetActive", updateBuilder)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	business, err := scanBusiness(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan business: %w", ErrScanRow, op, err)
	}

	return business, nil
}

func (r *Repository) execUpdate(ctx context.Context, op string, updateBuilder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBusinessNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*domain.Business, error) {
	var business domain.Business
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&business.ID,
		&business.Slug,
		&business.Name,
		&business.OwnerID,
		&business.SlotGranularityMinutes,
		&business.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	business.CreatedAt = createdAt.Time
	business.UpdatedAt = updatedAt.Time

	return &business, nil
}
