package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"commerce-events-go/internal/config"
	"commerce-events-go/internal/dedup"
	apierrors "commerce-events-go/internal/errors"
	"commerce-events-go/internal/logging"
	"commerce-events-go/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	log "github.com/sirupsen/logrus"
)

const relaySource = "commerce-events-relay"

type webhookHandler struct {
	forwarder       EventForwarder
	loopBreaker     *dedup.LoopBreaker
	protectedEvents []string
	loopTTL         time.Duration
}

func newWebhookHandler(cfg *config.Config, deps Dependencies) *webhookHandler {
	return &webhookHandler{
		forwarder:       deps.Forwarder,
		loopBreaker:     deps.LoopBreaker,
		protectedEvents: cfg.Server.ProtectedEvents,
		loopTTL:         time.Duration(cfg.Server.LoopTTLSeconds) * time.Second,
	}
}

func (h *webhookHandler) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWith(c, apierrors.New(http.StatusBadRequest, apierrors.CodeValidation, "Unable to read request body"))
		return
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		abortWith(c, apierrors.New(http.StatusBadRequest, apierrors.CodeValidation, "Event payload must be a JSON object"))
		return
	}

	eventType := doc.Get("type").String()
	if eventType == "" {
		abortWith(c, apierrors.New(http.StatusBadRequest, apierrors.CodeValidation, "Event type is required"))
		return
	}
	c.Set("event_type", eventType)

	data := doc.Get("data")
	if !data.Exists() {
		abortWith(c, apierrors.New(http.StatusBadRequest, apierrors.CodeValidation, "Event data is required"))
		return
	}

	loopKey := h.loopKey(eventType, doc, data)
	payload := dedup.Payload(json.RawMessage(data.Raw))

	skip, err := h.loopBreaker.Check(c.Request.Context(), dedup.Key(loopKey), h.protectedEvents, eventType, payload)
	if err != nil {
		logging.WithReq(c, log.Fields{"event_type": eventType}).WithError(err).Error("loop guard check failed")
		monitoring.WebhookEventsTotal.WithLabelValues(eventType, "error").Inc()
		abortWith(c, apierrors.New(http.StatusInternalServerError, "UNEXPECTED_ERROR", "Loop protection store unavailable"))
		return
	}
	if skip {
		monitoring.WebhookEventsTotal.WithLabelValues(eventType, "skipped").Inc()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Event skipped to prevent relay loop",
		})
		return
	}

	stamped := h.stamp(c, data.Raw)

	res := h.forwarder.PublishEvent(c.Request.Context(), eventType, json.RawMessage(stamped))
	if !res.Success {
		monitoring.WebhookEventsTotal.WithLabelValues(eventType, "failed").Inc()
		status := res.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, res)
		return
	}

	// Record the outgoing fingerprint so the same event bouncing back is
	// recognized. The stamped payload is what the remote will echo.
	if err := h.record(c.Request.Context(), eventType, loopKey, stamped); err != nil {
		logging.WithReq(c, log.Fields{"event_type": eventType}).WithError(err).Error("loop guard store failed")
		monitoring.WebhookEventsTotal.WithLabelValues(eventType, "error").Inc()
		abortWith(c, apierrors.New(http.StatusInternalServerError, "UNEXPECTED_ERROR", "Event relayed but loop protection could not be recorded"))
		return
	}

	monitoring.WebhookEventsTotal.WithLabelValues(eventType, "forwarded").Inc()
	c.JSON(http.StatusOK, res)
}

// record persists the fingerprint for protected event types only.
func (h *webhookHandler) record(ctx context.Context, eventType, loopKey, stamped string) error {
	for _, t := range h.protectedEvents {
		if t == eventType {
			return h.loopBreaker.Store(ctx, dedup.Key(loopKey), dedup.Payload(json.RawMessage(stamped)), h.loopTTL)
		}
	}
	return nil
}

// loopKey ties the guard record to the logical entity: the data id when the
// event carries one, the delivery id otherwise.
func (h *webhookHandler) loopKey(eventType string, doc, data gjson.Result) string {
	id := data.Get("id").String()
	if id == "" {
		id = doc.Get("id").String()
	}
	return eventType + ":" + id
}

func (h *webhookHandler) stamp(c *gin.Context, raw string) string {
	rid, _ := c.Get("request_id")
	ridStr, _ := rid.(string)

	stamped := raw
	stamped, _ = sjson.Set(stamped, "_relay.source", relaySource)
	stamped, _ = sjson.Set(stamped, "_relay.request_id", ridStr)
	stamped, _ = sjson.Set(stamped, "_relay.received_at", time.Now().UTC().Format(time.RFC3339))
	return stamped
}

func abortWith(c *gin.Context, apiErr *apierrors.APIError) {
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}
