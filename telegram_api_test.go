package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramService_SendAlert(t *testing.T) {
	var received TelegramSendMessageRequest
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	service, err := NewTelegramService("test-token", "", 555)
	require.NoError(t, err)
	service.baseURL = server.URL

	err = service.SendAlert("match found")
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, int64(555), received.ChatID)
	assert.Equal(t, "match found", received.Text)
	assert.Equal(t, "Markdown", received.ParseMode)
	assert.True(t, received.DisablePreview)
}

func TestTelegramService_APIErrorNotRetried(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"chat not found"}`))
	}))
	defer server.Close()

	service, err := NewTelegramService("test-token", "", 555)
	require.NoError(t, err)
	service.baseURL = server.URL

	err = service.SendAlert("match found")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	// API-level rejections are dropped, not retried.
	assert.Equal(t, 1, requests)
}

func TestTelegramService_TransportErrorRetriedOnce(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			// Drop the connection without a response.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	service, err := NewTelegramService("test-token", "", 555)
	require.NoError(t, err)
	service.baseURL = server.URL

	err = service.SendAlert("match found")
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestTelegramService_DisabledWithoutToken(t *testing.T) {
	service, err := NewTelegramService("", "", 0)
	require.NoError(t, err)

	assert.False(t, service.Enabled())

	// No token means no outbound call and no error.
	assert.NoError(t, service.SendAlert("never sent"))
}

func TestTelegramService_InvalidProxyDSN(t *testing.T) {
	_, err := NewTelegramService("test-token", "://bad", 555)
	assert.Error(t, err)
}
