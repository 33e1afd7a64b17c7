package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	approveRequestHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/approve_request"
	cancelRequestHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/cancel_request"
	createRequestHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/create_request"
	createSessionHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/create_session"
	findConflictsHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/find_conflicts"
	getRequestHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/get_request"
	getVenueSlotsHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/get_venue_slots"
	listRequestsHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/list_requests"
	lockSessionHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/lock_session"
	rejectRequestHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/reject_request"
	updateSessionHandler "github.com/keviiweb/VBS-sub000/internal/api/handlers/update_session"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/integrations/notifier"
	"github.com/keviiweb/VBS-sub000/internal/integrations/telegram"
	auditService "github.com/keviiweb/VBS-sub000/internal/service/audit"
	conflictsService "github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	requestsService "github.com/keviiweb/VBS-sub000/internal/service/requests"
	sessionsService "github.com/keviiweb/VBS-sub000/internal/service/sessions"
	createRequestUC "github.com/keviiweb/VBS-sub000/internal/usecase/create_request"
	getVenueSlotsUC "github.com/keviiweb/VBS-sub000/internal/usecase/get_venue_slots"
	"github.com/keviiweb/VBS-sub000/pkg/mq"
)

func serveCmd() *cobra.Command {
	var (
		inMemory bool
		seedFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), inMemory, seedFile)
		},
	}

	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "Use in-memory storage instead of Postgres")
	cmd.Flags().StringVar(&seedFile, "seed", "", "Load venues and CCAs from a TOML seed file on startup")

	return cmd
}

func runServe(ctx context.Context, inMemory bool, seedFile string) error {
	cfg := app.cfg
	log := app.log

	log.Info("Starting VBS...")

	// Хранилище
	var (
		storage *Storage
		err     error
	)
	if inMemory {
		storage = openMemoryStorage()
	} else {
		storage, err = openPostgresStorage(ctx)
		if err != nil {
			return err
		}
	}
	defer storage.Close()

	if seedFile != "" {
		if err := seedFromFile(ctx, storage, seedFile); err != nil {
			return err
		}
	}

	// Журнал аудита
	auditLog := auditService.NewService(storage.AuditLog, log, app.metrics, cfg.Audit.QueueSize)

	// Уведомления
	dispatcher, closeChannels, err := newDispatcher(storage)
	if err != nil {
		return err
	}
	defer closeChannels()
	dispatcher.Start()

	// Сервисы
	resolver := conflictsService.NewResolver(storage.Requests, storage.Bookings, log)
	requestsSvc := requestsService.NewService(
		storage.Requests,
		storage.Bookings,
		storage.Venues,
		resolver,
		dispatcher,
		auditLog,
		storage.TxManager,
		app.metrics,
		log,
		cfg.Booking.StoreTimeout(),
	)
	sessionsSvc := sessionsService.NewService(
		storage.Sessions,
		storage.CCAs,
		storage.TxManager,
		auditLog,
		log,
		cfg.Booking.StoreTimeout(),
	)

	// Use cases
	createRequestUseCase := createRequestUC.NewUseCase(
		storage.Requests,
		storage.Venues,
		storage.CCAs,
		resolver,
		storage.TxManager,
		auditLog,
		log,
		cfg.Booking.StoreTimeout(),
	)
	getVenueSlotsUseCase := getVenueSlotsUC.NewUseCase(
		storage.Venues,
		storage.Bookings,
		storage.Requests,
		log,
		cfg.Booking.StoreTimeout(),
	)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(app.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Публичные маршруты
	api.HandleFunc("/venues/{venueId}/slots",
		getVenueSlotsHandler.NewHandler(getVenueSlotsUseCase, log).Handle).Methods(http.MethodGet)

	// Маршруты с X-User-ID
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Заявки ---
	protected.HandleFunc("/requests",
		createRequestHandler.NewHandler(createRequestUseCase, log).Handle).Methods(http.MethodPost)
	protected.HandleFunc("/requests",
		listRequestsHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{requestId}",
		getRequestHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{requestId}/conflicts",
		findConflictsHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{requestId}/approve",
		approveRequestHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/requests/{requestId}/reject",
		rejectRequestHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/requests/{requestId}/cancel",
		cancelRequestHandler.NewHandler(requestsSvc, log).Handle).Methods(http.MethodPatch)

	// --- Сессии CCA ---
	protected.HandleFunc("/ccas/{ccaId}/sessions",
		createSessionHandler.NewHandler(sessionsSvc, log).Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}",
		updateSessionHandler.NewHandler(sessionsSvc, log).Handle).Methods(http.MethodPut)
	protected.HandleFunc("/sessions/{sessionId}/lock",
		lockSessionHandler.NewHandler(sessionsSvc, log).Handle).Methods(http.MethodPatch)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Очереди дочищаются после остановки HTTP, пока не истёк shutdownCtx
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("Notification dispatcher stopped with pending events: %v", err)
	}
	if err := auditLog.Stop(shutdownCtx); err != nil {
		log.Warn("Audit log stopped with pending entries: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newDispatcher собирает каналы уведомлений по конфигурации
// Без включённых уведомлений диспетчер работает без каналов и только считает события
func newDispatcher(storage *Storage) (*notifier.Dispatcher, func(), error) {
	cfg := app.cfg.Notifications
	log := app.log

	var (
		channels []notifier.Channel
		closers  []func()
	)

	if cfg.Enabled {
		if cfg.RabbitURL != "" {
			publisher, err := mq.NewPublisher(cfg.RabbitURL, cfg.Exchange)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
			}
			channels = append(channels, notifier.NewMQChannel(publisher))
			closers = append(closers, func() { _ = publisher.Close() })
			log.Info("RabbitMQ notification channel enabled (exchange=%s)", cfg.Exchange)
		}
		if cfg.TelegramURL != "" && cfg.TelegramToken != "" {
			client := telegram.NewClient(cfg.TelegramURL, cfg.TelegramToken, cfg.TelegramChatID, cfg.Timeout(), log)
			channels = append(channels, notifier.NewTextChannel("telegram", client))
			log.Info("Telegram notification channel enabled")
		}
	}

	dispatcher := notifier.NewDispatcher(
		notifier.Config{
			Workers:      cfg.Workers,
			QueueSize:    cfg.QueueSize,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff(),
			Timeout:      cfg.Timeout(),
		},
		storage.Venues,
		storage.CCAs,
		log,
		app.metrics,
		channels...,
	)

	return dispatcher, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
