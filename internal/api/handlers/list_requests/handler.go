package list_requests

import (
	"errors"
	"net/http"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/service/requests"
)

const (
	msgInvalidStatus = "некорректный статус, ожидается pending, approved, rejected или cancelled"
	msgUnavailable   = "хранилище недоступно, повторите попытку позже"
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

// Handle GET /api/v1/requests?status=pending
// Без параметра status возвращаются ожидающие заявки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = domain.StatusPending.String()
	}

	result, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		if errors.Is(err, requests.ErrInvalidInput) {
			h.logger.Warn("GET /requests - Invalid status: %s", status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		if errors.Is(err, requests.ErrStoreUnavailable) {
			h.logger.Error("GET /requests - Store unavailable: status=%s, error=%v", status, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)
			return
		}
		h.logger.Error("GET /requests - Failed to list requests: status=%s, error=%v", status, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /requests - Listed %d requests with status=%s", len(result.Requests), status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
