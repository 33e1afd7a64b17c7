package session

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

const table = "cca_sessions"

var columns = []string{
	"id",
	"cca_id",
	"date",
	"name",
	"time",
	"duration_minutes",
	"editable",
	"optional",
	"remarks",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий CCA
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую сессию
func (r *Repository) Create(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"cca_id",
			"date",
			"name",
			"time",
			"duration_minutes",
			"editable",
			"optional",
			"remarks",
			"created_by",
		).
		Values(
			s.ID,
			s.CCAID,
			s.Date,
			s.Name,
			s.Time,
			s.DurationMinutes,
			s.Editable,
			s.Optional,
			s.Remarks,
			s.CreatedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает сессию по ID
// В пишущей транзакции строка блокируется до её завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.CCASession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %w", ErrScanRow, err)
	}

	return s, nil
}

// FindByCCAAndDate получает все сессии CCA на дату
func (r *Repository) FindByCCAAndDate(ctx context.Context, ccaID string, date domain.Day) ([]*domain.CCASession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"cca_id": ccaID, "date": date}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByCCAAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByCCAAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.CCASession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindByCCAAndDate - scan session: %w", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindByCCAAndDate - rows error: %w", ErrScanRow, err)
	}

	return sessions, nil
}

// Update перезаписывает изменяемые поля сессии
func (r *Repository) Update(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("date", s.Date).
		Set("name", s.Name).
		Set("time", s.Time).
		Set("duration_minutes", s.DurationMinutes).
		Set("editable", s.Editable).
		Set("optional", s.Optional).
		Set("remarks", s.Remarks).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.CCASession, error) {
	var s domain.CCASession
	err := row.Scan(
		&s.ID,
		&s.CCAID,
		&s.Date,
		&s.Name,
		&s.Time,
		&s.DurationMinutes,
		&s.Editable,
		&s.Optional,
		&s.Remarks,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
