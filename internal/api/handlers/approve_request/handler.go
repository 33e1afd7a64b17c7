package approve_request

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/requests"
)

const (
	msgInvalidRequestID  = "некорректный ID заявки"
	msgNotFound          = "заявка не найдена"
	msgInvalidTransition = "заявка уже рассмотрена"
	msgAlreadyResolved   = "слоты заявки уже подтверждены для другой заявки"
	msgConcurrent        = "заявка была изменена параллельно, повторите попытку"
	msgMalformed         = "данные слотов повреждены, одобрение невозможно"
	msgUnavailable       = "хранилище недоступно, повторите попытку позже"
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

// Handle PATCH /api/v1/requests/{requestId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	approver, _ := middleware.UserID(r.Context())

	result, err := h.service.Approve(r.Context(), requestID, approver)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrNotFound):
			h.logger.Warn("PATCH /requests/{id}/approve - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /requests/{id}/approve - Invalid transition: request_id=%s", requestID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, requests.ErrAlreadyResolved):
			h.logger.Warn("PATCH /requests/{id}/approve - Already resolved: request_id=%s", requestID)
			handlers.RespondConflict(w, msgAlreadyResolved)

		case errors.Is(err, requests.ErrConcurrentModification):
			h.logger.Warn("PATCH /requests/{id}/approve - Concurrent modification: request_id=%s", requestID)
			handlers.RespondConflict(w, msgConcurrent)

		case errors.Is(err, requests.ErrMalformedSlotData):
			h.logger.Error("PATCH /requests/{id}/approve - Malformed slot data: request_id=%s, error=%v", requestID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMalformed)

		case errors.Is(err, requests.ErrStoreUnavailable):
			h.logger.Error("PATCH /requests/{id}/approve - Store unavailable: request_id=%s, error=%v", requestID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PATCH /requests/{id}/approve - Failed to approve: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /requests/{id}/approve - Request approved: request_id=%s, approver=%s, cascaded=%d",
		requestID, approver, len(result.CascadedRejections))
	handlers.RespondJSON(w, http.StatusOK, result)
}
