package reject_request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/keviiweb/VBS-sub000/internal/service/requests"
	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

type stubService struct {
	gotReason string
	err       error
}

func (s *stubService) Reject(_ context.Context, requestID string, reason string, _ string) (*models.RequestResponse, error) {
	s.gotReason = reason
	if s.err != nil {
		return nil, s.err
	}
	return &models.RequestResponse{ID: requestID, Status: "rejected", Reason: &reason}, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/requests/req-1/reject", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"requestId": "req-1"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &stubService{}
	rec := serve(NewHandler(svc, logger.NewNop()), `{"reason":"hall closed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hall closed", svc.gotReason)
	assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := serve(NewHandler(&stubService{}, logger.NewNop()), `{"reason":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_MissingReason(t *testing.T) {
	rec := serve(NewHandler(&stubService{err: requests.ErrMissingReason}, logger.NewNop()), `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidTransition(t *testing.T) {
	rec := serve(NewHandler(&stubService{err: requests.ErrInvalidTransition}, logger.NewNop()), `{"reason":"late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
