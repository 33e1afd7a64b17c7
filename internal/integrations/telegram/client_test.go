package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

func TestClient_SendMessage(t *testing.T) {
	var got SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botsecret/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(APIResponse{OK: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", "-100", time.Second, logger.NewNop())
	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	assert.Equal(t, "-100", got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestClient_SendMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "bad chat", status: http.StatusBadRequest, wantErr: ErrChatNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrInvalidResponse},
		{name: "not ok", status: http.StatusOK, body: `{"ok":false,"description":"nope"}`, wantErr: ErrInvalidResponse},
		{name: "garbage", status: http.StatusOK, body: `{`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", "-100", time.Second, logger.NewNop())
			err := c.SendMessage(context.Background(), "hello")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_SendMessage_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "-100", 5*time.Second, logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.SendMessage(ctx, "hello")
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
