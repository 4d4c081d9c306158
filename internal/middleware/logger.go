package middleware

import (
	"time"

	"commerce-events-go/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs HTTP requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		// Attempt to include the event type if the handler set it
		eventTypeVal, _ := c.Get("event_type")
		extras := log.Fields{
			"status":     status,
			"latency_ms": logging.DurationMS(latency),
			"user_agent": c.Request.UserAgent(),
			"method":     method,
			"path":       path,
			"event_type": eventTypeVal,
		}
		logging.WithReq(c, extras).Info("http_request")
	}
}
