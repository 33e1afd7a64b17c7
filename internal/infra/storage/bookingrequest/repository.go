package bookingrequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/psqlbuilder"
)

const table = "booking_requests"

var columns = []string{
	"id",
	"venue_id",
	"date",
	"timing_slots",
	"email",
	"cca_id",
	"purpose",
	"status",
	"conflict_request",
	"reason",
	"decided_by",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий заявок на бронирование
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку
// Если ID не задан, генерируется UUID. Версия новой заявки равна 1
func (r *Repository) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = domain.StatusPending
	}
	if req.ConflictRequest == nil {
		req.ConflictRequest = []string{}
	}
	req.Version = 1

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"venue_id",
			"date",
			"timing_slots",
			"email",
			"cca_id",
			"purpose",
			"status",
			"conflict_request",
			"reason",
			"decided_by",
			"version",
		).
		Values(
			req.ID,
			req.VenueID,
			req.Date,
			req.TimingSlots,
			req.Email,
			req.CCAID,
			req.Purpose,
			req.Status,
			pq.Array(req.ConflictRequest),
			req.Reason,
			req.DecidedBy,
			req.Version,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.BookingRequest, error) {
	return r.get(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает заявку по ID и блокирует строку до конца транзакции
// Вне транзакции и в READ ONLY транзакции работает как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*domain.BookingRequest, error) {
	return r.get(ctx, "GetByIDForUpdate", id, dbmetrics.CanLockRows(ctx))
}

func (r *Repository) get(ctx context.Context, op string, id string, lock bool) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan request: %w", ErrScanRow, op, err)
	}

	return req, nil
}

// FindByVenueAndDate получает заявки площадки на дату
// Если statuses не пустой, возвращаются только заявки в этих статусах
// В пишущей транзакции найденные строки блокируются (FOR UPDATE): каскадное
// отклонение и одобрение не должны гоняться с параллельными решениями.
// В READ ONLY транзакции (FindConflicts) строки не блокируются
func (r *Repository) FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day, statuses ...domain.RequestStatus) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"venue_id": venueID, "date": date}).
		OrderBy("created_at ASC", "id ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}
	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByVenueAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByVenueAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows, "FindByVenueAndDate")
}

// FindPending получает ожидающие решения заявки площадки на дату
func (r *Repository) FindPending(ctx context.Context, venueID string, date domain.Day) ([]*domain.BookingRequest, error) {
	return r.FindByVenueAndDate(ctx, venueID, date, domain.StatusPending)
}

// ListByStatus получает все заявки в статусе, старые первыми
func (r *Repository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": status}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStatus - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows, "ListByStatus")
}

// Update применяет patch к заявке, если её версия равна expectedVersion
// Версия увеличивается на 1. Если заявки нет - ErrRequestNotFound,
// если версия изменилась - ErrVersionConflict
func (r *Repository) Update(ctx context.Context, id string, patch domain.RequestPatch, expectedVersion int64) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", patch.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": expectedVersion})

	if patch.Reason != nil {
		updateBuilder = updateBuilder.Set("reason", *patch.Reason)
	}
	if patch.DecidedBy != nil {
		updateBuilder = updateBuilder.Set("decided_by", *patch.DecidedBy)
	}
	if patch.ConflictRequest != nil {
		updateBuilder = updateBuilder.Set("conflict_request", pq.Array(patch.ConflictRequest))
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	updated, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	// Ни одна строка не обновлена: заявки нет или версия уже другая
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrVersionConflict
}

// DeleteAllByVenue удаляет все заявки площадки вместе с их слотами
func (r *Repository) DeleteAllByVenue(ctx context.Context, venueID string) (int64, error) {
	return r.delete(ctx, "DeleteAllByVenue", squirrel.Eq{"venue_id": venueID})
}

// DeleteAll удаляет все заявки
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	return r.delete(ctx, "DeleteAll", nil)
}

func (r *Repository) delete(ctx context.Context, op string, where squirrel.Sqlizer) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete(table)
	if where != nil {
		deleteBuilder = deleteBuilder.Where(where)
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %w", ErrExecQuery, op, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.BookingRequest, error) {
	var (
		req       domain.BookingRequest
		reason    sql.NullString
		decidedBy sql.NullString
	)

	err := row.Scan(
		&req.ID,
		&req.VenueID,
		&req.Date,
		&req.TimingSlots,
		&req.Email,
		&req.CCAID,
		&req.Purpose,
		&req.Status,
		pq.Array(&req.ConflictRequest),
		&reason,
		&decidedBy,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reason.Valid {
		req.Reason = &reason.String
	}
	if decidedBy.Valid {
		req.DecidedBy = &decidedBy.String
	}
	if req.ConflictRequest == nil {
		req.ConflictRequest = []string{}
	}

	return &req, nil
}

func scanRequests(rows *sql.Rows, op string) ([]*domain.BookingRequest, error) {
	requests := make([]*domain.BookingRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan request: %w", ErrScanRow, op, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return requests, nil
}

func statusStrings(statuses []domain.RequestStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
