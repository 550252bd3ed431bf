package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govdocs/internal/config"
	"govdocs/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhook_Notify(t *testing.T) {
	var got Notice
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := Notice{Kind: KindAccessReviewed, To: "ana@example.gov", Subject: "Access request approved"}
	err := NewWebhook(srv.URL, time.Second).Notify(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, n.To, got.To)
	assert.Equal(t, KindAccessReviewed, got.Kind)
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, time.Second).Notify(context.Background(), Notice{Kind: KindPasswordReset})
	assert.ErrorContains(t, err, "notify password_reset")
}

func TestNew_FallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	n := New(config.NotifyConfig{}, logging.New(&buf, time.UTC))

	_, ok := n.(*LogNotifier)
	require.True(t, ok)

	require.NoError(t, n.Notify(context.Background(), Notice{Kind: KindVerifyEmail, To: "ben@example.gov"}))
	assert.Contains(t, buf.String(), `"kind":"verify_email"`)
	assert.Contains(t, buf.String(), `"component":"notify"`)

	_, ok = New(config.NotifyConfig{WebhookURL: "http://localhost:1"}, logging.Default()).(*Webhook)
	assert.True(t, ok)
}
