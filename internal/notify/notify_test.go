package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookChannelPostsJSON(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ch, err := NewWebhookChannel(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = ch.Send(context.Background(), Notification{
		Title:     "Geomagnetic storm",
		Body:      "Kp reached 5.7",
		TapTarget: "/kp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Geomagnetic storm", got.Title)
	assert.Equal(t, "/kp", got.TapTarget)
}

func TestWebhookChannelNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ch, err := NewWebhookChannel(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.Error(t, ch.Send(context.Background(), Notification{Title: "x"}))
}

func TestNewWebhookChannelEmptyURL(t *testing.T) {
	_, err := NewWebhookChannel("")
	assert.Error(t, err)
}
