package update_session

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
	msgNotFound           = "сессия не найдена"
	msgLocked             = "сессия закрыта для редактирования"
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

// Handle PUT /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req UpdateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor, _ := middleware.UserID(r.Context())

	result, err := h.service.Update(r.Context(), req.ToServiceInput(sessionID, actor))
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("PUT /sessions/{id} - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/{id} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, sessions.ErrSessionLocked):
			h.logger.Warn("PUT /sessions/{id} - Session locked: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgLocked)

		case errors.Is(err, sessions.ErrSessionConflict):
			h.logger.Warn("PUT /sessions/{id} - Session conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, sessions.ErrStoreUnavailable):
			h.logger.Error("PUT /sessions/{id} - Store unavailable: session_id=%s, error=%v", sessionID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PUT /sessions/{id} - Failed to update session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/{id} - Session updated: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
