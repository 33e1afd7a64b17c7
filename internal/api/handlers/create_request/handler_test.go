package create_request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/internal/api/middleware"
	createRequest "github.com/keviiweb/VBS-sub000/internal/usecase/create_request"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

type stubUseCase struct {
	got *createRequest.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createRequest.Request) (*createRequest.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createRequest.Response{Requests: []createRequest.CreatedRequest{{
		ID:          "req-1",
		VenueID:     req.VenueID,
		Date:        req.Date,
		TimingSlots: req.TimingSlots,
		SlotLabels:  []string{"09:00"},
		Email:       req.Email,
		CCAID:       req.CCAID,
		Purpose:     req.Purpose,
		Status:      "pending",
		CreatedAt:   time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC),
	}}}, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "lead@u.edu"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(NewHandler(uc, logger.NewNop()),
		`{"venueId":"hall","date":"2025-10-15","timingSlots":"2","ccaId":"band","purpose":"practice"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "lead@u.edu", uc.got.Email)
	assert.Equal(t, "hall", uc.got.VenueID)

	var body CreateRequestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Requests, 1)
	assert.Equal(t, "req-1", body.Requests[0].ID)
	assert.Equal(t, "2025-10-10T12:00:00Z", body.Requests[0].CreatedAt)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "invalid input", err: createRequest.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "venue not found", err: createRequest.ErrVenueNotFound, code: http.StatusNotFound},
		{name: "duplicate", err: createRequest.ErrDuplicateRequest, code: http.StatusConflict},
		{name: "slot taken", err: createRequest.ErrSlotNotAvailable, code: http.StatusConflict},
		{name: "past date", err: createRequest.ErrInvalidDate, code: http.StatusBadRequest},
		{name: "internal", err: createRequest.ErrInternal, code: http.StatusInternalServerError},
		{name: "store unavailable", err: fmt.Errorf("%w: create request: %w", createRequest.ErrStoreUnavailable, context.DeadlineExceeded), code: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&stubUseCase{err: tt.err}, logger.NewNop()), `{"venueId":"hall"}`)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandle_UnknownField(t *testing.T) {
	rec := serve(NewHandler(&stubUseCase{}, logger.NewNop()), `{"venue":"hall"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
