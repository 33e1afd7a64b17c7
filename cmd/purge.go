package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	auditService "github.com/keviiweb/VBS-sub000/internal/service/audit"
	conflictsService "github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	requestsService "github.com/keviiweb/VBS-sub000/internal/service/requests"
	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
)

// purgeActor автор записи аудита, если $USER не задан
const purgeActor = "cli"

func purgeCmd() *cobra.Command {
	var (
		venueID string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete booking requests and confirmed slots of a venue or of all venues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (venueID == "") == !all {
				return errors.New("exactly one of --venue or --all is required")
			}

			ctx := cmd.Context()

			storage, err := openPostgresStorage(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			auditLog := auditService.NewService(storage.AuditLog, app.log, app.metrics, app.cfg.Audit.QueueSize)
			defer func() {
				if err := auditLog.Stop(ctx); err != nil {
					app.log.Warn("Audit log stopped with pending entries: %v", err)
				}
			}()

			svc := requestsService.NewService(
				storage.Requests,
				storage.Bookings,
				storage.Venues,
				conflictsService.NewResolver(storage.Requests, storage.Bookings, app.log),
				nopNotifier{},
				auditLog,
				storage.TxManager,
				app.metrics,
				app.log,
				app.cfg.Booking.StoreTimeout(),
			)

			actor := os.Getenv("USER")
			if actor == "" {
				actor = purgeActor
			}

			var result *models.PurgeResponse
			if all {
				result, err = svc.PurgeAll(ctx, actor)
			} else {
				result, err = svc.PurgeVenue(ctx, venueID, actor)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %d request(s) and %d confirmed slot(s)\n", result.DeletedRequests, result.DeletedBookings)
			return nil
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "Purge a single venue")
	cmd.Flags().BoolVar(&all, "all", false, "Purge every venue")

	return cmd
}

// nopNotifier уведомления не отправляются: массовое удаление не меняет статусы заявок
type nopNotifier struct{}

func (nopNotifier) NotifyApproved(*domain.BookingRequest, string) error { return nil }
func (nopNotifier) NotifyRejected(*domain.BookingRequest, string) error { return nil }
func (nopNotifier) NotifyCancelled(*domain.BookingRequest) error        { return nil }
func (nopNotifier) NotifySlotFreed(*domain.BookingRequest) error        { return nil }
