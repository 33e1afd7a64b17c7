package find_conflicts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/keviiweb/VBS-sub000/internal/service/requests"
	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

type stubService struct {
	gotID string
	err   error
}

func (s *stubService) FindConflicts(_ context.Context, requestID string) (*models.ConflictsResponse, error) {
	s.gotID = requestID
	if s.err != nil {
		return nil, s.err
	}
	return &models.ConflictsResponse{
		RequestID: requestID,
		Conflicts: []models.RequestResponse{{ID: "req-2", Status: "pending", TimingSlots: "2,3"}},
	}, nil
}

func serve(h *Handler, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/"+requestID+"/conflicts", nil)
	req = mux.SetURLVars(req, map[string]string{"requestId": requestID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &stubService{}
	rec := serve(NewHandler(svc, logger.NewNop()), "req-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", svc.gotID)
	assert.Contains(t, rec.Body.String(), `"requestId":"req-1"`)
	assert.Contains(t, rec.Body.String(), `"id":"req-2"`)
}

func TestHandle_MissingID(t *testing.T) {
	svc := &stubService{}
	rec := serve(NewHandler(svc, logger.NewNop()), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.gotID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", requests.ErrNotFound, http.StatusNotFound},
		{"malformed slots", fmt.Errorf("%w: request req-1: bad slot", requests.ErrMalformedSlotData), http.StatusUnprocessableEntity},
		{"store timeout", fmt.Errorf("%w: FindConflicts - load request: %w", requests.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&stubService{err: tt.err}, logger.NewNop()), "req-1")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
