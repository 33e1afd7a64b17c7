package venue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/psqlbuilder"
)

const table = "venues"

var columns = []string{
	"id",
	"name",
	"description",
	"capacity",
	"parent_id",
	"is_child_venue",
	"visible",
	"open_time",
	"close_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую площадку
func (r *Repository) Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"name",
			"description",
			"capacity",
			"parent_id",
			"is_child_venue",
			"visible",
			"open_time",
			"close_time",
		).
		Values(
			v.ID,
			v.Name,
			v.Description,
			v.Capacity,
			v.ParentID,
			v.IsChildVenue,
			v.Visible,
			v.OpenTime,
			v.CloseTime,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return v, nil
}

// GetByID получает площадку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	v, err := scanVenue(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan venue: %w", ErrScanRow, err)
	}

	return v, nil
}

// List получает площадки, отсортированные по имени
// Если onlyVisible = true, скрытые площадки не возвращаются
func (r *Repository) List(ctx context.Context, onlyVisible bool) ([]*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC")
	if onlyVisible {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"visible": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan venue: %w", ErrScanRow, err)
		}
		venues = append(venues, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return venues, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(row rowScanner) (*domain.Venue, error) {
	var (
		v        domain.Venue
		parentID sql.NullString
	)

	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Description,
		&v.Capacity,
		&parentID,
		&v.IsChildVenue,
		&v.Visible,
		&v.OpenTime,
		&v.CloseTime,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		v.ParentID = &parentID.String
	}

	return &v, nil
}
