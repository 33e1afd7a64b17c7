package lock_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/sessions"
)

const (
	msgNotFound    = "сессия не найдена"
	msgLocked      = "сессия уже закрыта для редактирования"
	msgUnavailable = "хранилище недоступно, повторите попытку позже"
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

// Handle PATCH /api/v1/sessions/{sessionId}/lock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	actor, _ := middleware.UserID(r.Context())

	result, err := h.service.Lock(r.Context(), sessionID, actor)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("PATCH /sessions/{id}/lock - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, sessions.ErrSessionLocked):
			h.logger.Warn("PATCH /sessions/{id}/lock - Session already locked: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgLocked)

		case errors.Is(err, sessions.ErrStoreUnavailable):
			h.logger.Error("PATCH /sessions/{id}/lock - Store unavailable: session_id=%s, error=%v", sessionID, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("PATCH /sessions/{id}/lock - Failed to lock session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /sessions/{id}/lock - Session locked: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
