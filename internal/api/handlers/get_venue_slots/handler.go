package get_venue_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	getVenueSlots "github.com/keviiweb/VBS-sub000/internal/usecase/get_venue_slots"
)

const (
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVenueNotFound = "площадка не найдена"
	msgUnavailable   = "хранилище недоступно, повторите попытку позже"
)

type Handler struct {
	useCase GetVenueSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetVenueSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["venueId"]
	date := r.URL.Query().Get("date")

	result, err := h.useCase.Execute(r.Context(), &getVenueSlots.Request{VenueID: venueID, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getVenueSlots.ErrInvalidInput):
			h.logger.Warn("GET /venues/{id}/slots - Invalid input: venue_id=%s, date=%s", venueID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getVenueSlots.ErrVenueNotFound):
			h.logger.Warn("GET /venues/{id}/slots - Venue not found: venue_id=%s", venueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, getVenueSlots.ErrStoreUnavailable):
			h.logger.Error("GET /venues/{id}/slots - Store unavailable: venue_id=%s, error=%v", venueID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("GET /venues/{id}/slots - Failed to get slots: venue_id=%s, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
