package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSendText(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "chat456")
	tg.baseURL = srv.URL

	require.NoError(t, tg.SendText("🚀 *Order Entry*"))
	assert.Equal(t, "/bottoken123/sendMessage", path)
	assert.Equal(t, "chat456", got["chat_id"])
	assert.Equal(t, "🚀 *Order Entry*", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestTelegramSendTextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tg := NewTelegram("token", "chat")
	tg.baseURL = srv.URL

	err := tg.SendText("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTelegramRequiresCredentials(t *testing.T) {
	tg := NewTelegram("", "")
	assert.Error(t, tg.SendText("hello"))
}

func TestNoopNeverFails(t *testing.T) {
	assert.NoError(t, Noop{}.SendText("anything"))
}
