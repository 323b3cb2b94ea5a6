// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/volume-uploader/backend/internal/metrics"
	"github.com/volume-uploader/backend/internal/storage"
	"github.com/volume-uploader/backend/internal/web"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store             storage.Store
	AllowedExtensions []string
	MaxUploadBytes    int64
	Metrics           *metrics.Collector
	Logger            *zap.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Upload UploadHandler
	Files  FilesHandler
	Page   PageHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		Health: NewHealthHandler(deps.Store),
		Upload: NewUploadHandler(deps.Store, deps.AllowedExtensions, deps.Metrics, logger),
		Files:  NewFilesHandler(deps.Store, deps.Metrics),
		Page:   NewPageHandler(deps.Store, deps.AllowedExtensions, deps.MaxUploadBytes, logger),
	}
}

// RegisterRoutes registers all routes with the Echo instance. A zero
// maxUploadBytes leaves uploads unbounded.
func RegisterRoutes(e *echo.Echo, handlers *Handlers, maxUploadBytes int64) error {
	e.GET("/", handlers.Page.HandleIndex)
	e.GET("/health", handlers.Health.HandleHealth)
	e.GET("/files", handlers.Files.HandleListFiles)

	if maxUploadBytes > 0 {
		limit := middleware.BodyLimit(strconv.FormatInt(maxUploadBytes, 10))
		e.POST("/upload", handlers.Upload.HandleUpload, limit)
	} else {
		e.POST("/upload", handlers.Upload.HandleUpload)
	}

	return web.RegisterStaticRoutes(e)
}

// RegisterMetrics exposes the Prometheus handler at path.
func RegisterMetrics(e *echo.Echo, m *metrics.Collector, path string) {
	if path == "" {
		path = "/metrics"
	}
	e.GET(path, echo.WrapHandler(m.Handler()))
}

// MiddlewareOptions configures SetupMiddleware.
type MiddlewareOptions struct {
	Logger         *zap.Logger
	RequestLogging bool
	EnableCORS     bool
	AllowOrigins   string
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(RequestID())
	if opts.RequestLogging {
		e.Use(RequestLogger(logger, func(path string) bool {
			return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/")
		}))
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))

	if opts.EnableCORS {
		origins := strings.Split(opts.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
