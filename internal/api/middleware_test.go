package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		handler    echo.HandlerFunc
		wantStatus int
		wantLevel  zapcore.Level
	}{
		{
			name:       "success",
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantLevel:  zapcore.InfoLevel,
		},
		{
			name:       "api error",
			handler:    func(c echo.Context) error { return NewBadRequestError("No file selected") },
			wantStatus: http.StatusBadRequest,
			wantLevel:  zapcore.WarnLevel,
		},
		{
			name:       "internal error",
			handler:    func(c echo.Context) error { return NewInternalError("Upload failed: disk full", nil) },
			wantStatus: http.StatusInternalServerError,
			wantLevel:  zapcore.WarnLevel,
		},
		{
			name:       "echo http error",
			handler:    func(c echo.Context) error { return echo.ErrStatusRequestEntityTooLarge },
			wantStatus: http.StatusRequestEntityTooLarge,
			wantLevel:  zapcore.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			e := echo.New()
			SetupMiddleware(e, MiddlewareOptions{Logger: zap.New(core), RequestLogging: true})
			e.GET("/items", tt.handler)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
			require.Equal(t, tt.wantStatus, rec.Code)

			entries := logs.FilterMessage("request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, int64(tt.wantStatus), entries[0].ContextMap()["status"])
			assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
		})
	}
}

func TestRequestLogger_SkipsQuietPaths(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	SetupMiddleware(e, MiddlewareOptions{Logger: zap.New(core), RequestLogging: true})
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, logs.FilterMessage("request").Len())
}
