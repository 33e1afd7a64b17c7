package get_request

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/service/requests"
)

const (
	msgInvalidRequestID = "некорректный ID заявки"
	msgNotFound         = "заявка не найдена"
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

// Handle GET /api/v1/requests/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	result, err := h.service.GetByID(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			h.logger.Warn("GET /requests/{id} - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		if errors.Is(err, requests.ErrStoreUnavailable) {
			h.logger.Error("GET /requests/{id} - Store unavailable: request_id=%s, error=%v", requestID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)
			return
		}
		h.logger.Error("GET /requests/{id} - Failed to get request: request_id=%s, error=%v", requestID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
