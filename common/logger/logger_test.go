package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"quickbite-backend/common/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInitialize(t *testing.T) {
	logger.Initialize("production")
	assert.NotNil(t, logger.Log)

	logger.Initialize("development")
	assert.NotNil(t, logger.Log)
}

func TestRequestLogger_LevelsByStatusClass(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Log = zap.New(core)

	r := gin.New()
	r.Use(logger.RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	// an id is generated when the caller sends none
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
}
