package lock_session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	"github.com/keviiweb/VBS-sub000/internal/service/sessions"
	"github.com/keviiweb/VBS-sub000/internal/service/sessions/models"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

type stubService struct {
	gotID    string
	gotActor string
	err      error
}

func (s *stubService) Lock(_ context.Context, sessionID string, actor string) (*models.SessionResponse, error) {
	s.gotID = sessionID
	s.gotActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &models.SessionResponse{ID: sessionID, CCAID: "band", Editable: false}, nil
}

func serve(h *Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/sess-1/lock", nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": "sess-1"})
	req = req.WithContext(middleware.WithUserID(req.Context(), "admin@u.edu"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &stubService{}
	rec := serve(NewHandler(svc, logger.NewNop()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-1", svc.gotID)
	assert.Equal(t, "admin@u.edu", svc.gotActor)
	assert.Contains(t, rec.Body.String(), `"editable":false`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", sessions.ErrSessionNotFound, http.StatusNotFound},
		{"already locked", sessions.ErrSessionLocked, http.StatusConflict},
		{"store timeout", fmt.Errorf("%w: Lock - load session: %w", sessions.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&stubService{err: tt.err}, logger.NewNop()))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
