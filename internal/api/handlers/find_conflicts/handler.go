package find_conflicts

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
	msgMalformed        = "данные слотов повреждены, проверка конфликтов невозможна"
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

// Handle GET /api/v1/requests/{requestId}/conflicts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	result, err := h.service.FindConflicts(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrNotFound):
			h.logger.Warn("GET /requests/{id}/conflicts - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrMalformedSlotData):
			h.logger.Error("GET /requests/{id}/conflicts - Malformed slot data: request_id=%s, error=%v", requestID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMalformed)

		case errors.Is(err, requests.ErrStoreUnavailable):
			h.logger.Error("GET /requests/{id}/conflicts - Store unavailable: request_id=%s, error=%v", requestID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("GET /requests/{id}/conflicts - Failed to find conflicts: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
