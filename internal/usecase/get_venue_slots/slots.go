package get_venue_slots

import "github.com/keviiweb/VBS-sub000/internal/domain"

// buildSlots строит список всех слотов дня с отметкой занятости
// Ожидающие заявки с неразбираемыми слотами пропускаются: представление ничего не решает
func buildSlots(
	layout domain.SlotLayout,
	bookings []*domain.VenueBooking,
	pending []*domain.BookingRequest,
	logger Logger,
) ([]Slot, error) {
	slots := make([]Slot, 0, layout.Count)
	for idx := 0; idx < layout.Count; idx++ {
		label, err := layout.Label(idx)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			Index:           idx,
			StartTime:       label,
			DurationMinutes: layout.SlotMinutes,
		})
	}

	for _, b := range bookings {
		if !layout.InRange(b.Slot) {
			logger.Warn("buildSlots: booking id=%s slot %d is outside venue hours", b.ID, b.Slot)
			continue
		}
		slots[b.Slot].Booked = true
		slots[b.Slot].RequestID = b.RequestID
	}

	for _, r := range pending {
		claimed, err := r.Slots(layout)
		if err != nil {
			logger.Warn("buildSlots: pending request id=%s has malformed slots %q: %v", r.ID, r.TimingSlots, err)
			continue
		}
		for _, idx := range claimed {
			slots[idx].PendingRequests++
		}
	}

	return slots, nil
}
