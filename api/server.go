package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/metrics"
)

// NewServer builds the echo instance serving h.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(observe)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes
	e.GET("/api/ls", h.ListDirectory)
	e.GET("/api/stat", h.GetFileMetadata)
	e.GET("/api/roots", h.GetRoots)
	e.GET("/api/rules", h.GetRules)
	e.GET("/api/history", h.GetHistory)
	e.POST("/api/select", h.Select)
	e.POST("/api/organize", h.Organize)
	e.POST("/api/insert", h.Insert)
	e.POST("/api/rename", h.Rename)
	e.POST("/api/extract", h.Extract)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}

// observe logs every request and records its metrics.
func observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		req, res := c.Request(), c.Response()
		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(req.Method, c.Path(), res.Status, elapsed)
		logging.WithContext(req.Context()).Info("request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.Duration("latency", elapsed),
		)
		return nil
	}
}
