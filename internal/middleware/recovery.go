package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Recovery returns a panic recovery middleware.
func Recovery() gin.HandlerFunc {
	return RecoveryWithWriter(nil)
}

// RecoveryWithWriter returns a panic recovery middleware with a custom hook.
func RecoveryWithWriter(writer gin.RecoveryFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				log.WithFields(log.Fields{
					"error":      err,
					"stack":      string(stack),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"user_agent": c.Request.UserAgent(),
				}).Error("Panic recovered")

				if writer != nil {
					writer(c, err)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message":    "Internal server error",
					"statusCode": http.StatusInternalServerError,
				})
			}
		}()

		c.Next()
	}
}
