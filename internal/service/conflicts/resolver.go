package conflicts

import (
	"context"
	"fmt"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Resolver ищет заявки и подтверждённые слоты, конфликтующие с заявкой
// Все методы работают "fail closed": неразбираемые слоты любой заявки дают ErrMalformedSlotData
type Resolver struct {
	requests RequestRepository
	bookings BookingRepository
	logger   Logger
}

// NewResolver создает новый экземпляр Resolver
func NewResolver(requests RequestRepository, bookings BookingRepository, logger Logger) *Resolver {
	return &Resolver{
		requests: requests,
		bookings: bookings,
		logger:   logger,
	}
}

// FindDuplicates ищет активные (pending/approved) заявки того же владельца
// на ту же площадку и дату, пересекающиеся с slots хотя бы по одному слоту.
// Владелец - CCA, а для личных заявок - сам заявитель
func (r *Resolver) FindDuplicates(ctx context.Context, layout domain.SlotLayout, candidate *domain.BookingRequest, slots domain.SlotSet) ([]*domain.BookingRequest, error) {
	active, err := r.requests.FindByVenueAndDate(ctx, candidate.VenueID, candidate.Date, domain.ActiveStatuses...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindDuplicates - load requests: %w", ErrStore, err)
	}

	duplicates := make([]*domain.BookingRequest, 0)
	for _, other := range active {
		if other.ID == candidate.ID || !candidate.SameOwner(other) {
			continue
		}
		otherSlots, err := r.parse(layout, other)
		if err != nil {
			return nil, err
		}
		if domain.Overlaps(slots, otherSlots) {
			duplicates = append(duplicates, other)
		}
	}

	return duplicates, nil
}

// FindOverlappingRequests ищет другие заявки той же площадки и даты в статусах statuses,
// чьи слоты пересекаются со слотами request, независимо от владельца
func (r *Resolver) FindOverlappingRequests(ctx context.Context, layout domain.SlotLayout, request *domain.BookingRequest, statuses ...domain.RequestStatus) ([]*domain.BookingRequest, error) {
	slots, err := r.parse(layout, request)
	if err != nil {
		return nil, err
	}

	candidates, err := r.requests.FindByVenueAndDate(ctx, request.VenueID, request.Date, statuses...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlappingRequests - load requests: %w", ErrStore, err)
	}

	overlapping := make([]*domain.BookingRequest, 0)
	for _, other := range candidates {
		if other.ID == request.ID {
			continue
		}
		otherSlots, err := r.parse(layout, other)
		if err != nil {
			return nil, err
		}
		if domain.Overlaps(slots, otherSlots) {
			overlapping = append(overlapping, other)
		}
	}

	return overlapping, nil
}

// FindConfirmedConflicts возвращает подтверждённые слоты площадки на дату, занимающие любой из slots
func (r *Resolver) FindConfirmedConflicts(ctx context.Context, venueID string, date domain.Day, slots domain.SlotSet) ([]*domain.VenueBooking, error) {
	if slots.IsEmpty() {
		return []*domain.VenueBooking{}, nil
	}

	booked, err := r.bookings.FindByVenueAndDate(ctx, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConfirmedConflicts - load bookings: %w", ErrStore, err)
	}

	conflicting := make([]*domain.VenueBooking, 0)
	for _, b := range booked {
		if slots.Contains(b.Slot) {
			conflicting = append(conflicting, b)
		}
	}

	return conflicting, nil
}

func (r *Resolver) parse(layout domain.SlotLayout, req *domain.BookingRequest) (domain.SlotSet, error) {
	slots, err := req.Slots(layout)
	if err != nil {
		r.logger.Warn("conflicts: request %s has malformed slots %q: %v", req.ID, req.TimingSlots, err)
		return nil, fmt.Errorf("%w: request %s: %w", ErrMalformedSlotData, req.ID, err)
	}
	return slots, nil
}
