package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/testutil"
)

func TestHealthHandler_HandleHealth(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		want     models.HealthStatus
	}{
		{
			name: "volume ready",
			want: models.HealthStatus{
				Status:           "healthy",
				VolumePath:       "/mock/volume",
				VolumeAccessible: true,
				Message:          "Directory ready",
			},
		},
		{
			name:     "volume unavailable",
			checkErr: errors.New("read-only file system"),
			want: models.HealthStatus{
				Status:           "degraded",
				VolumePath:       "/mock/volume",
				VolumeAccessible: false,
				Message:          "read-only file system",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			store.CheckErr = tt.checkErr
			handler := NewHealthHandler(store)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			require.NoError(t, handler.HandleHealth(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var got models.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
