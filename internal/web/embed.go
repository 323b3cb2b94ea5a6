// Package web provides the embedded upload page and its static assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed dist
var distFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(distFiles, "dist/index.html"))

// PageData fills the index template. FileList is pre-rendered HTML.
type PageData struct {
	VolumePath        string
	AllowedExtensions string
	MaxUploadSize     string
	FileList          template.HTML
}

// RenderIndex executes the page template.
func RenderIndex(w io.Writer, data PageData) error {
	return indexTemplate.Execute(w, data)
}

// GetFileSystem returns the embedded static assets with static/ as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(distFiles, "dist/static")
}

// RegisterStaticRoutes serves the embedded assets under /static/.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := GetFileSystem()
	if err != nil {
		return err
	}

	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	e.GET("/static/*", echo.WrapHandler(fileServer))
	return nil
}
