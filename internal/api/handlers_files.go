// handlers_files.go - GET /files
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/volume-uploader/backend/internal/metrics"
	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/storage"
)

// MIMEMsgpack is served when the client asks for it in Accept.
const MIMEMsgpack = "application/msgpack"

// FilesHandlerImpl implements the FilesHandler interface
type FilesHandlerImpl struct {
	store   storage.Store
	metrics *metrics.Collector
}

// NewFilesHandler creates a new listing handler
func NewFilesHandler(store storage.Store, m *metrics.Collector) FilesHandler {
	return &FilesHandlerImpl{store: store, metrics: m}
}

// HandleListFiles returns every file on the volume, newest first.
func (h *FilesHandlerImpl) HandleListFiles(c echo.Context) error {
	files, err := h.store.List(c.Request().Context())
	if err != nil {
		h.metrics.RecordList(false)
		return NewInternalError(err.Error(), err)
	}
	h.metrics.RecordList(true)

	resp := models.ListResponse{Success: true, Files: files}
	if resp.Files == nil {
		resp.Files = []models.FileRecord{}
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEMsgpack) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, MIMEMsgpack, data)
	}
	return c.JSON(http.StatusOK, resp)
}
