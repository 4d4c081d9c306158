package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"commerce-events-go/internal/client"
	"commerce-events-go/internal/config"
	"commerce-events-go/internal/dedup"
	"commerce-events-go/internal/store"
)

type fakeForwarder struct {
	calls    []fakeCall
	response client.Result
}

type fakeCall struct {
	eventCode string
	payload   string
}

func (f *fakeForwarder) PublishEvent(_ context.Context, eventCode string, payload interface{}) client.Result {
	raw, _ := json.Marshal(payload)
	f.calls = append(f.calls, fakeCall{eventCode: eventCode, payload: string(raw)})
	return f.response
}

func newTestEngine(t *testing.T, forwarder *fakeForwarder, protected ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Server.ProtectedEvents = protected
	cfg.Server.MetricsEnabled = false
	return BuildEngine(cfg, Dependencies{
		Forwarder:   forwarder,
		LoopBreaker: dedup.NewLoopBreaker(store.NewMemoryStore()),
	})
}

func postWebhook(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestWebhookForwardsEvent(t *testing.T) {
	fwd := &fakeForwarder{response: client.Result{Success: true, Message: "ok"}}
	engine := newTestEngine(t, fwd)

	w := postWebhook(engine, `{"type": "com.example.order.placed", "id": "ev-1", "data": {"id": "42", "status": "new"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fwd.calls, 1)
	assert.Equal(t, "com.example.order.placed", fwd.calls[0].eventCode)

	payload := gjson.Parse(fwd.calls[0].payload)
	assert.Equal(t, "42", payload.Get("id").String())
	assert.Equal(t, "commerce-events-relay", payload.Get("_relay.source").String())
	assert.NotEmpty(t, payload.Get("_relay.request_id").String())
	assert.NotEmpty(t, payload.Get("_relay.received_at").String())
}

func TestWebhookSkipsLoopedEvent(t *testing.T) {
	fwd := &fakeForwarder{response: client.Result{Success: true, Message: "ok"}}
	engine := newTestEngine(t, fwd, "com.example.order.placed")

	first := postWebhook(engine, `{"type": "com.example.order.placed", "data": {"id": "42", "status": "new"}}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Len(t, fwd.calls, 1)

	// Replay the stamped payload as if the remote echoed it back.
	echo := map[string]interface{}{
		"type": "com.example.order.placed",
		"data": json.RawMessage(fwd.calls[0].payload),
	}
	echoBody, err := json.Marshal(echo)
	require.NoError(t, err)

	second := postWebhook(engine, string(echoBody))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, fwd.calls, 1, "echoed event must not be forwarded again")
	assert.Contains(t, second.Body.String(), "skipped")
}

func TestWebhookUnprotectedEventAlwaysForwards(t *testing.T) {
	fwd := &fakeForwarder{response: client.Result{Success: true, Message: "ok"}}
	engine := newTestEngine(t, fwd)

	body := `{"type": "com.example.order.placed", "data": {"id": "42"}}`
	postWebhook(engine, body)
	postWebhook(engine, body)
	assert.Len(t, fwd.calls, 2)
}

func TestWebhookValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"not an object", `[1, 2]`, "Event payload must be a JSON object"},
		{"missing type", `{"data": {}}`, "Event type is required"},
		{"missing data", `{"type": "com.example.order.placed"}`, "Event data is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fwd := &fakeForwarder{response: client.Result{Success: true}}
			engine := newTestEngine(t, fwd)

			w := postWebhook(engine, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, gjson.Parse(w.Body.String()).Get("message").String())
			assert.Empty(t, fwd.calls)
		})
	}
}

func TestWebhookForwardFailurePropagates(t *testing.T) {
	fwd := &fakeForwarder{response: client.Result{
		Success:    false,
		StatusCode: http.StatusBadGateway,
		Message:    "HTTP error! status: 502",
	}}
	engine := newTestEngine(t, fwd)

	w := postWebhook(engine, `{"type": "com.example.order.placed", "data": {"id": "42"}}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.False(t, body.Get("success").Bool())
	assert.Equal(t, "HTTP error! status: 502", body.Get("message").String())
}

func TestWebhookStoreFailureHardFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fwd := &fakeForwarder{response: client.Result{Success: true, Message: "ok"}}
	cfg := config.Default()
	cfg.Server.ProtectedEvents = []string{"com.example.order.placed"}
	cfg.Server.MetricsEnabled = false
	engine := BuildEngine(cfg, Dependencies{
		Forwarder:   fwd,
		LoopBreaker: dedup.NewLoopBreaker(failingStore{}),
	})

	w := postWebhook(engine, `{"type": "com.example.order.placed", "data": {"id": "42"}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, fwd.calls, "check failure must stop the relay before forwarding")
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, assert.AnError
}

func (failingStore) Put(context.Context, string, string, time.Duration) error {
	return assert.AnError
}

func TestHealthEndpoint(t *testing.T) {
	fwd := &fakeForwarder{response: client.Result{Success: true}}
	engine := newTestEngine(t, fwd)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Parse(w.Body.String()).Get("status").String())
}
