package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/psqlbuilder"
)

// Repository репозиторий журнала аудита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert добавляет запись в журнал
func (r *Repository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("audit_log").
		Columns("id", "operation", "actor", "message", "created_at").
		Values(entry.ID, entry.Operation, entry.Actor, entry.Message, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
