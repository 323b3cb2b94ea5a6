// handlers_page.go - GET / upload page
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volume-uploader/backend/internal/storage"
	"github.com/volume-uploader/backend/internal/web"
	"github.com/volume-uploader/backend/internal/widget"
	"go.uber.org/zap"
)

// PageHandlerImpl implements the PageHandler interface
type PageHandlerImpl struct {
	store             storage.Store
	allowedExtensions []string
	maxUploadBytes    int64
	logger            *zap.Logger
}

// NewPageHandler creates the handler for the upload page.
func NewPageHandler(store storage.Store, allowedExtensions []string, maxUploadBytes int64, logger *zap.Logger) PageHandler {
	return &PageHandlerImpl{
		store:             store,
		allowedExtensions: allowedExtensions,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// HandleIndex renders the upload page with the current listing.
func (h *PageHandlerImpl) HandleIndex(c echo.Context) error {
	files, err := h.store.List(c.Request().Context())
	if err != nil {
		// The page still renders; the script retries the listing on load.
		h.logger.Warn("initial listing failed", zap.Error(err))
		files = nil
	}

	list, err := widget.ListHTML(files)
	if err != nil {
		return NewInternalError("failed to render file list", err)
	}

	var buf bytes.Buffer
	err = web.RenderIndex(&buf, web.PageData{
		VolumePath:        h.store.Location(),
		AllowedExtensions: strings.Join(h.allowedExtensions, ", "),
		MaxUploadSize:     fmt.Sprintf("%s MB", widget.FormatMB(h.maxUploadBytes)),
		FileList:          list,
	})
	if err != nil {
		return NewInternalError("failed to render page", err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
