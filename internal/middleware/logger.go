package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"servicemarket/internal/pkg/response"
)

// RequestLogger logs every request, records 5xx responses and handler
// errors, and recovers from panics with a JSON 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequest(c, start, "panic", err.Error(), debug.Stack())

				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				c.Abort()
				return
			}

			if len(c.Errors) > 0 {
				for _, err := range c.Errors {
					logRequest(c, start, fmt.Sprintf("%v", err.Type), err.Error(), nil)
				}
				return
			}

			if c.Writer.Status() >= http.StatusInternalServerError {
				logRequest(c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status()), nil)
				return
			}

			log.Info().
				Int("status", c.Writer.Status()).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Int64("user_id", c.GetInt64("user_id")).
				Dur("latency", time.Since(start)).
				Msg("request")
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time, errType string, message string, stack []byte) {
	ev := log.Error().
		Str("type", errType).
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", c.GetInt64("user_id")).
		Str("role", c.GetString("role")).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start)).
		Str("error", message)
	if stack != nil {
		ev = ev.Str("stack", string(stack))
	}
	ev.Msg("request_error")
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
