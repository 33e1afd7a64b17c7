package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/auditlog"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/bookingrequest"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/cca"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/memstore"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/session"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/venue"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/venuebooking"
	auditService "github.com/keviiweb/VBS-sub000/internal/service/audit"
	conflictsService "github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	requestsService "github.com/keviiweb/VBS-sub000/internal/service/requests"
	sessionsService "github.com/keviiweb/VBS-sub000/internal/service/sessions"
	createRequestUC "github.com/keviiweb/VBS-sub000/internal/usecase/create_request"
	getVenueSlotsUC "github.com/keviiweb/VBS-sub000/internal/usecase/get_venue_slots"
	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/txmanager"
)

// Объединённые контракты репозиториев: одна реализация обслуживает все слои

type requestStore interface {
	requestsService.RequestRepository
	createRequestUC.RequestRepository
	getVenueSlotsUC.RequestRepository
	conflictsService.RequestRepository
}

type bookingStore interface {
	requestsService.BookingRepository
	getVenueSlotsUC.BookingRepository
	conflictsService.BookingRepository
}

type venueStore interface {
	requestsService.VenueRepository
	Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error)
	List(ctx context.Context, onlyVisible bool) ([]*domain.Venue, error)
}

type ccaStore interface {
	sessionsService.CCARepository
	Create(ctx context.Context, c *domain.CCA) (*domain.CCA, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage репозитории выбранного хранилища
type Storage struct {
	Requests  requestStore
	Bookings  bookingStore
	Venues    venueStore
	CCAs      ccaStore
	Sessions  sessionsService.SessionRepository
	AuditLog  auditService.Repository
	TxManager txManager

	// DB задан только для Postgres
	DB    *dbmetrics.DB
	close func()
}

// Close освобождает соединения хранилища
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// openMemoryStorage хранилище в памяти процесса; данные теряются при остановке
func openMemoryStorage() *Storage {
	store := memstore.New()
	app.log.Warn("Using in-memory storage, data is not persisted")

	return &Storage{
		Requests:  store.Requests(),
		Bookings:  store.Bookings(),
		Venues:    store.Venues(),
		CCAs:      store.CCAs(),
		Sessions:  store.Sessions(),
		AuditLog:  store.AuditLog(),
		TxManager: store.TxManager(),
	}
}

// openPostgresStorage подключается к Postgres и собирает репозитории поверх обёртки с метриками
func openPostgresStorage(ctx context.Context) (*Storage, error) {
	cfg := app.cfg.Database

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	app.log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	stopCh := make(chan struct{})
	wrapped := dbmetrics.WrapWithDefault(db, app.metrics, stopCh)

	return &Storage{
		Requests:  bookingrequest.NewRepository(wrapped),
		Bookings:  venuebooking.NewRepository(wrapped),
		Venues:    venue.NewRepository(wrapped),
		CCAs:      cca.NewRepository(wrapped),
		Sessions:  session.NewRepository(wrapped),
		AuditLog:  auditlog.NewRepository(wrapped),
		TxManager: txmanager.NewTransactionManager(wrapped),
		DB:        wrapped,
		close: func() {
			close(stopCh)
			_ = db.Close()
		},
	}, nil
}
