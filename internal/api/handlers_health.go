// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/storage"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	store storage.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Store) HealthHandler {
	return &HealthHandlerImpl{
		store: store,
	}
}

// HandleHealth reports whether the upload volume is usable. A volume
// problem degrades the service but is still answered with 200.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	status := models.HealthStatus{
		Status:           "healthy",
		VolumePath:       h.store.Location(),
		VolumeAccessible: true,
		Message:          "Directory ready",
	}
	if err := h.store.Check(c.Request().Context()); err != nil {
		status.Status = "degraded"
		status.VolumeAccessible = false
		status.Message = err.Error()
	}
	return c.JSON(http.StatusOK, status)
}
