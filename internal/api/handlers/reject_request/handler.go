package reject_request

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/requests"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingReason      = "необходимо указать причину отклонения"
	msgInvalidReason      = "причина отклонения слишком длинная"
	msgNotFound           = "заявка не найдена"
	msgInvalidTransition  = "заявка уже рассмотрена"
	msgConcurrent         = "заявка была изменена параллельно, повторите попытку"
	msgUnavailable        = "хранилище недоступно, повторите попытку позже"
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

// Handle PATCH /api/v1/requests/{requestId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req RejectRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /requests/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor, _ := middleware.UserID(r.Context())

	result, err := h.service.Reject(r.Context(), requestID, req.Reason, actor)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrMissingReason):
			h.logger.Warn("PATCH /requests/{id}/reject - Missing reason: request_id=%s", requestID)
			handlers.RespondBadRequest(w, msgMissingReason)

		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("PATCH /requests/{id}/reject - Invalid reason: request_id=%s", requestID)
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, requests.ErrNotFound):
			h.logger.Warn("PATCH /requests/{id}/reject - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /requests/{id}/reject - Invalid transition: request_id=%s", requestID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, requests.ErrConcurrentModification):
			h.logger.Warn("PATCH /requests/{id}/reject - Concurrent modification: request_id=%s", requestID)
			handlers.RespondConflict(w, msgConcurrent)

		case errors.Is(err, requests.ErrStoreUnavailable):
			h.logger.Error("PATCH /requests/{id}/reject - Store unavailable: request_id=%s, error=%v", requestID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PATCH /requests/{id}/reject - Failed to reject: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /requests/{id}/reject - Request rejected: request_id=%s, actor=%s", requestID, actor)
	handlers.RespondJSON(w, http.StatusOK, result)
}
