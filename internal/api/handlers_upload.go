// handlers_upload.go - POST /upload
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volume-uploader/backend/internal/metrics"
	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/storage"
	"go.uber.org/zap"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store             storage.Store
	allowedExtensions []string
	metrics           *metrics.Collector
	logger            *zap.Logger
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, allowedExtensions []string, m *metrics.Collector, logger *zap.Logger) UploadHandler {
	return &UploadHandlerImpl{
		store:             store,
		allowedExtensions: allowedExtensions,
		metrics:           m,
		logger:            logger,
	}
}

// HandleUpload saves the multipart field "file" on the volume.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			h.metrics.RecordUpload(metrics.OutcomeRejected, 0)
			return httpErr
		}
		if form := c.Request().MultipartForm; form != nil {
			if _, ok := form.Value["file"]; ok {
				// A file input submitted with nothing chosen arrives as a plain value.
				return h.reject("No file selected")
			}
		}
		return h.reject("No file part in the request")
	}

	if header.Filename == "" {
		return h.reject("No file selected")
	}
	if !storage.AllowedFile(header.Filename, h.allowedExtensions) {
		return h.reject("File type not allowed. Allowed types: " + strings.Join(h.allowedExtensions, ", "))
	}

	ctx := c.Request().Context()
	if err := h.store.Check(ctx); err != nil {
		h.metrics.RecordUpload(metrics.OutcomeFailed, 0)
		return NewInternalError(fmt.Sprintf("Failed to access volume directory: %v", err), err)
	}

	name := storage.SecureFilename(header.Filename)
	if name == "" {
		return h.reject("Invalid file name")
	}

	src, err := header.Open()
	if err != nil {
		h.metrics.RecordUpload(metrics.OutcomeFailed, 0)
		return NewInternalError(fmt.Sprintf("Upload failed: %v", err), err)
	}
	defer src.Close()

	stored, err := h.store.Save(ctx, name, src)
	if err != nil {
		h.metrics.RecordUpload(metrics.OutcomeFailed, 0)
		return NewInternalError(fmt.Sprintf("Upload failed: %v", err), err)
	}

	h.metrics.RecordUpload(metrics.OutcomeSuccess, stored.Size)
	h.logger.Info("file uploaded",
		zap.String("request_id", requestID(c)),
		zap.String("original_name", header.Filename),
		zap.String("filename", stored.Name),
		zap.Int64("size", stored.Size))

	return c.JSON(http.StatusOK, models.UploadResponse{
		Success:  true,
		Message:  fmt.Sprintf("File %q uploaded successfully", stored.Name),
		Filename: stored.Name,
		Path:     stored.Path,
	})
}

func (h *UploadHandlerImpl) reject(message string) error {
	h.metrics.RecordUpload(metrics.OutcomeRejected, 0)
	return NewBadRequestError(message)
}
