// Package middleware provides the gin middleware shared by all routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs method, path, status, duration, and client IP for
// every request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			log.Error("HTTP request with errors", fields...)
		} else {
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery converts panics into a generic failure response instead of
// letting them take the worker down mid-request.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					logger.Any("panic", r),
					logger.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"msg":     "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
