package web

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader is the request ID header key.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns a request ID, reusing the client's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID stored on c.
func GetRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	requestID, _ := c.Get(requestIDKey)
	s, _ := requestID.(string)
	return s
}

func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(route string, status int)
}

// RequestLogger logs every request and feeds obs, which may be nil.
func RequestLogger(logger *slog.Logger, obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if obs != nil {
			obs.ObserveRequest(route, status)
		}
		if route == "/healthz" || route == "/metrics" {
			return
		}

		attrs := []any{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(startedAt)),
			slog.Int("bytes", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("http_request", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("http_request", attrs...)
		default:
			logger.Debug("http_request", attrs...)
		}
	}
}
