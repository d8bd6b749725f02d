package delivery_http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"yatube/internal/logger"
	"yatube/internal/metrics"
)

const loginURL = "/auth/login/"

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}

func Metrics(provider metrics.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		provider.IncrementHTTPRequests(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
		provider.RecordHTTPRequestDuration(c.Request.Method, route, time.Since(start))
	}
}

// AuthRequired sends anonymous visitors to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if LoadSession(c).UserID() == 0 {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}
