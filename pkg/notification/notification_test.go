package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/pkg/workerpool"
)

type statusChanged struct {
	channels []string
	status   string
}

func (n statusChanged) Via() []string { return n.channels }

func (n statusChanged) ToLog() LogData {
	return LogData{Message: "status changed", Attrs: []any{"status", n.status}}
}

func (n statusChanged) ToWebhook() WebhookData {
	return WebhookData{Payload: map[string]string{"status": n.status}, Headers: map[string]string{"X-Event": "status"}}
}

type logOnly struct{}

func (logOnly) Via() []string { return []string{"webhook"} }

func TestWebhookDelivery(t *testing.T) {
	var got map[string]string
	var event string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event = r.Header.Get("X-Event")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewSender(nil, srv.URL)
	errs := s.Send(context.Background(), "a@b.com", statusChanged{channels: []string{"log", "webhook"}, status: "VERIFIED"})

	assert.Empty(t, errs)
	assert.Equal(t, "VERIFIED", got["status"])
	assert.Equal(t, "status", event)
}

func TestWebhookWithoutURLIsSkipped(t *testing.T) {
	s := NewSender(nil, "")
	errs := s.Send(context.Background(), "a@b.com", statusChanged{channels: []string{"webhook"}})
	assert.Empty(t, errs)
}

func TestWebhookFailureStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSender(nil, srv.URL).WithRetry(2, time.Millisecond)
	errs := s.Send(context.Background(), "a@b.com", statusChanged{channels: []string{"webhook"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "502")
	assert.Equal(t, int32(2), hits.Load())
}

func TestUnsupportedChannel(t *testing.T) {
	s := NewSender(nil, "http://unused")
	errs := s.Send(context.Background(), "a@b.com", logOnly{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Webhookable")

	errs = s.Send(context.Background(), "a@b.com", statusChanged{channels: []string{"sms"}})
	require.Len(t, errs, 1)
}

func TestSendAsyncUsesPool(t *testing.T) {
	hits := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits <- struct{}{}
	}))
	defer srv.Close()

	pool := workerpool.New("notify", 1)
	s := NewSender(pool, srv.URL)
	s.SendAsync(context.Background(), "a@b.com", statusChanged{channels: []string{"webhook"}})

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Len(t, hits, 1)
}
