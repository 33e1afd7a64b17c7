package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"занято"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Reason string `json:"reason"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"maintenance"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "maintenance", v.Reason)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"x","extra":1}`))
	assert.Error(t, DecodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.Error(t, DecodeJSON(req, &v))
}
