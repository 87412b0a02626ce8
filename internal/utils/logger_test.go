package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlog_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(newSlog(&buf, "production", ""))

	logger.Debug("hidden")
	logger.LogError(errors.New("boom"), "Submit failed", "draft_id", "d-1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "d-1", entry["draft_id"])
}

func TestNewSlog_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(newSlog(&buf, "development", "warn"))

	logger.Info("skipped")
	assert.Zero(t, buf.Len())

	logger.LogRequest(http.MethodGet, "/health", http.StatusNotFound, "1ms")
	assert.Contains(t, buf.String(), "status_code=404")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err, "generated id is a uuid")
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
