package cancel_request

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/requests"
)

const (
	msgInvalidRequestID = "некорректный ID заявки"
	msgNotFound         = "заявка не найдена"
	msgCannotCancel     = "заявка не может быть отменена"
	msgConcurrent       = "заявка была изменена параллельно, повторите попытку"
	msgUnavailable      = "хранилище недоступно, повторите попытку позже"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/requests/{requestId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, _ := middleware.UserID(r.Context())

	result, err := h.service.Cancel(r.Context(), requestID, actor)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrNotFound):
			h.logger.Warn("PATCH /requests/{id}/cancel - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /requests/{id}/cancel - Cannot cancel: request_id=%s", requestID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, requests.ErrConcurrentModification):
			h.logger.Warn("PATCH /requests/{id}/cancel - Concurrent modification: request_id=%s", requestID)
			handlers.RespondConflict(w, msgConcurrent)

		case errors.Is(err, requests.ErrStoreUnavailable):
			h.logger.Error("PATCH /requests/{id}/cancel - Store unavailable: request_id=%s, error=%v", requestID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PATCH /requests/{id}/cancel - Failed to cancel: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /requests/{id}/cancel - Request cancelled: request_id=%s, actor=%s", requestID, actor)
	handlers.RespondJSON(w, http.StatusOK, result)
}
