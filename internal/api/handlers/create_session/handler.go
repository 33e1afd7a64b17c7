package create_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/sessions"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные сессии, время ожидается в формате HH:MM - HH:MM"
	msgCCANotFound        = "CCA не найдена"
	msgConflict           = "время сессии пересекается с другой сессией CCA"
	msgUnavailable        = "хранилище недоступно, повторите попытку позже"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/ccas/{ccaId}/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ccaID := mux.Vars(r)["ccaId"]

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /ccas/{id}/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	createdBy, _ := middleware.UserID(r.Context())

	result, err := h.service.Create(r.Context(), req.ToServiceInput(ccaID, createdBy))
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("POST /ccas/{id}/sessions - Invalid input: cca_id=%s, error=%v", ccaID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, sessions.ErrCCANotFound):
			h.logger.Warn("POST /ccas/{id}/sessions - CCA not found: cca_id=%s", ccaID)
			handlers.RespondNotFound(w, msgCCANotFound)

		case errors.Is(err, sessions.ErrSessionConflict):
			h.logger.Warn("POST /ccas/{id}/sessions - Session conflict: cca_id=%s, time=%s", ccaID, req.Time)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, sessions.ErrStoreUnavailable):
			h.logger.Error("POST /ccas/{id}/sessions - Store unavailable: cca_id=%s, error=%v", ccaID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("POST /ccas/{id}/sessions - Failed to create session: cca_id=%s, error=%v", ccaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /ccas/{id}/sessions - Session created: session_id=%s, cca_id=%s", result.ID, ccaID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
