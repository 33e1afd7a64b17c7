package create_request

import (
	"errors"
	"net/http"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	createRequest "github.com/keviiweb/VBS-sub000/internal/usecase/create_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные заявки"
	msgVenueNotFound      = "площадка не найдена"
	msgVenueNotBookable   = "площадка недоступна для бронирования"
	msgCCANotFound        = "CCA не найдена"
	msgInvalidDate        = "дата бронирования в прошлом"
	msgInvalidTimeSlot    = "некорректные временные слоты"
	msgDuplicate          = "у вас уже есть заявка на эти слоты"
	msgSlotNotAvailable   = "выбранные слоты уже заняты"
	msgTooManyOccurrences = "слишком много повторений"
	msgUnavailable        = "хранилище недоступно, повторите попытку позже"
)

type Handler struct {
	useCase CreateRequestUseCase
	logger  Logger
}

func NewHandler(useCase CreateRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	email, _ := middleware.UserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(email))
	if err != nil {
		switch {
		case errors.Is(err, createRequest.ErrInvalidInput):
			h.logger.Warn("POST /requests - Invalid input: email=%s, error=%v", email, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createRequest.ErrVenueNotFound):
			h.logger.Warn("POST /requests - Venue not found: venue_id=%s", req.VenueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, createRequest.ErrVenueNotBookable):
			h.logger.Warn("POST /requests - Venue not bookable: venue_id=%s", req.VenueID)
			handlers.RespondBadRequest(w, msgVenueNotBookable)

		case errors.Is(err, createRequest.ErrCCANotFound):
			h.logger.Warn("POST /requests - CCA not found: cca_id=%s", req.CCAID)
			handlers.RespondNotFound(w, msgCCANotFound)

		case errors.Is(err, createRequest.ErrInvalidDate):
			h.logger.Warn("POST /requests - Date in the past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createRequest.ErrInvalidTimeSlot):
			h.logger.Warn("POST /requests - Invalid slots: venue_id=%s, slots=%s", req.VenueID, req.TimingSlots)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createRequest.ErrTooManyOccurrences):
			h.logger.Warn("POST /requests - Too many occurrences: repeat_until=%s", req.RepeatUntil)
			handlers.RespondBadRequest(w, msgTooManyOccurrences)

		case errors.Is(err, createRequest.ErrDuplicateRequest):
			h.logger.Warn("POST /requests - Duplicate request: email=%s, venue_id=%s", email, req.VenueID)
			handlers.RespondConflict(w, msgDuplicate)

		case errors.Is(err, createRequest.ErrSlotNotAvailable):
			h.logger.Warn("POST /requests - Slots not available: venue_id=%s, date=%s", req.VenueID, req.Date)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createRequest.ErrStoreUnavailable):
			h.logger.Error("POST /requests - Store unavailable: email=%s, venue_id=%s, error=%v", email, req.VenueID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("POST /requests - Failed to create request: email=%s, venue_id=%s, error=%v",
				email, req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests - Created %d request(s): email=%s, venue_id=%s",
		len(result.Requests), email, req.VenueID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
