// interfaces.go - Handler interface definitions
package api

import "github.com/labstack/echo/v4"

// UploadHandler accepts files for the volume.
type UploadHandler interface {
	HandleUpload(c echo.Context) error
}

// FilesHandler lists the volume.
type FilesHandler interface {
	HandleListFiles(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// PageHandler serves the upload page.
type PageHandler interface {
	HandleIndex(c echo.Context) error
}
