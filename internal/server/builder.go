// Package server hosts the webhook action endpoint. Incoming events are
// validated, checked against the relay-loop guard, stamped with relay
// metadata and forwarded to the back-office API.
package server

import (
	"context"
	"net/http"

	"commerce-events-go/internal/client"
	"commerce-events-go/internal/config"
	"commerce-events-go/internal/dedup"
	mw "commerce-events-go/internal/middleware"
	"commerce-events-go/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EventForwarder hands an event to the back office (satisfied by
// *commerce.Client).
type EventForwarder interface {
	PublishEvent(ctx context.Context, eventCode string, payload interface{}) client.Result
}

// Dependencies encapsulates the runtime services the engine needs.
type Dependencies struct {
	Forwarder   EventForwarder
	LoopBreaker *dedup.LoopBreaker
}

// BuildEngine constructs the gin engine for the action host.
func BuildEngine(cfg *config.Config, deps Dependencies) *gin.Engine {
	if !cfg.Security.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(mw.Recovery())
	engine.Use(mw.RequestID())
	engine.Use(mw.RequestLogger())
	if cfg.Server.MetricsEnabled {
		engine.Use(mw.Metrics())
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.Version,
		})
	})

	h := newWebhookHandler(cfg, deps)
	events := engine.Group("/events")
	events.Use(mw.RateLimiter(cfg.Server.RateRPS, cfg.Server.RateBurst))
	events.POST("/webhook", h.handle)

	return engine
}
