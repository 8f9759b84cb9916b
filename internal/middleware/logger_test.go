package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(r http.Handler, path string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
}

func TestLoggerSkipsSuccessAndHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	r := gin.New()
	r.Use(Logger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	performRequest(r, "/health")
	performRequest(r, "/api/v1/dashboard")

	assert.Empty(t, hook.Entries)
}

func TestLoggerRecordsClientErrorWithUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	r := gin.New()
	r.Use(Logger())
	r.GET("/api/v1/newsletters/99", func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.JSON(http.StatusNotFound, gin.H{"error": "newsletter not found"})
	})

	performRequest(r, "/api/v1/newsletters/99")

	require.Len(t, hook.Entries, 1)
	entry := hook.Entries[0]
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, uint(7), entry.Data["user_id"])
}

func TestLoggerRecordsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	r := gin.New()
	r.Use(Logger())
	r.GET("/api/v1/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	performRequest(r, "/api/v1/boom")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[0].Level)
}
