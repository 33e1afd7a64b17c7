package venuebooking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/psqlbuilder"
)

const table = "venue_bookings"

// codeUniqueViolation код ошибки Postgres при нарушении уникальности
const codeUniqueViolation = "23505"

var columns = []string{
	"id",
	"venue_id",
	"date",
	"slot",
	"request_id",
	"email",
	"cca_id",
	"purpose",
	"booked_by",
	"created_at",
}

// Repository репозиторий подтверждённых слотов площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подтверждённых слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateSlot сохраняет подтверждённый слот
// Уникальный индекс (venue_id, date, slot) не даёт занять слот дважды: в этом случае ErrSlotTaken
func (r *Repository) CreateSlot(ctx context.Context, booking *domain.VenueBooking) (*domain.VenueBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"venue_id",
			"date",
			"slot",
			"request_id",
			"email",
			"cca_id",
			"purpose",
			"booked_by",
		).
		Values(
			booking.ID,
			booking.VenueID,
			booking.Date,
			booking.Slot,
			booking.RequestID,
			booking.Email,
			booking.CCAID,
			booking.Purpose,
			booking.BookedBy,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSlot - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
			return nil, fmt.Errorf("%w: venue=%s date=%s slot=%d", ErrSlotTaken, booking.VenueID, booking.Date, booking.Slot)
		}
		return nil, fmt.Errorf("%w: CreateSlot - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// FindByVenueAndDate получает подтверждённые слоты площадки на дату, упорядоченные по слоту
func (r *Repository) FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day) ([]*domain.VenueBooking, error) {
	return r.find(ctx, "FindByVenueAndDate", squirrel.Eq{"venue_id": venueID, "date": date})
}

// FindByRequestID получает слоты, материализованные заявкой
func (r *Repository) FindByRequestID(ctx context.Context, requestID string) ([]*domain.VenueBooking, error) {
	return r.find(ctx, "FindByRequestID", squirrel.Eq{"request_id": requestID})
}

func (r *Repository) find(ctx context.Context, op string, where squirrel.Eq) ([]*domain.VenueBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.VenueBooking, 0)
	for rows.Next() {
		var b domain.VenueBooking
		if err := rows.Scan(
			&b.ID,
			&b.VenueID,
			&b.Date,
			&b.Slot,
			&b.RequestID,
			&b.Email,
			&b.CCAID,
			&b.Purpose,
			&b.BookedBy,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

// DeleteByRequestID освобождает все слоты заявки
func (r *Repository) DeleteByRequestID(ctx context.Context, requestID string) (int64, error) {
	return r.delete(ctx, "DeleteByRequestID", squirrel.Eq{"request_id": requestID})
}

// DeleteAllByVenue удаляет все подтверждённые слоты площадки
func (r *Repository) DeleteAllByVenue(ctx context.Context, venueID string) (int64, error) {
	return r.delete(ctx, "DeleteAllByVenue", squirrel.Eq{"venue_id": venueID})
}

// DeleteAll удаляет все подтверждённые слоты
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

	var result sql.Result
	result, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %w", ErrExecQuery, op, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return deleted, nil
}
