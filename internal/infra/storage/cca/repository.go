package cca

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

// Repository репозиторий CCA
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория CCA
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую CCA
func (r *Repository) Create(ctx context.Context, c *domain.CCA) (*domain.CCA, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("ccas").
		Columns("id", "name", "description").
		Values(c.ID, c.Name, c.Description).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// GetByID получает CCA по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.CCA, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "created_at", "updated_at").
		From("ccas").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.CCA
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCCANotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan cca: %w", ErrScanRow, err)
	}

	return &c, nil
}
