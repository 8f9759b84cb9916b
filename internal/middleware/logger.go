package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger returns a middleware that logs failed requests using logrus.
// Health checks are never logged; the acting user is attached once the
// bearer-token middleware has run.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if strings.Contains(path, "/health") {
			return
		}

		status := c.Writer.Status()
		if status < 400 {
			return
		}

		if raw != "" {
			path = path + "?" + raw
		}
		fields := logrus.Fields{
			"status":    status,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      path,
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logrus.WithFields(fields)
		if status >= 500 {
			entry.Error("Server error")
		} else {
			entry.Warn("Client error")
		}
	}
}
