package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"smart-attendance/internal/adapters/http/middleware"
	"smart-attendance/internal/infrastructure/auth"
	"smart-attendance/internal/ports"
)

// NewRouter assembles the echo instance. Login and the availability probe
// target /system/status stay outside the auth guard; everything else under
// /api is protected per the configured mode.
func NewRouter(h *Handlers, logger ports.Logger, tokens *auth.TokenMiddleware) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	var tokenHandler echo.MiddlewareFunc
	if tokens != nil {
		tokenHandler = tokens.Handler
	}
	guard, err := middleware.AuthMiddleware(tokenHandler)
	if err != nil {
		return nil, err
	}

	api := e.Group("/api")
	api.POST("/auth/login", h.Login)
	api.GET("/system/status", h.SystemStatus)

	protected := api.Group("", guard)
	protected.GET("/employees", h.ListEmployees)
	protected.POST("/employees", h.CreateEmployee)
	protected.PUT("/employees/:id", h.UpdateEmployee)
	protected.DELETE("/employees/:id", h.DeleteEmployee)

	protected.GET("/attendance", h.ListAttendance)
	protected.POST("/attendance", h.RecordAttendance)

	protected.GET("/visitors", h.ListVisitors)
	protected.POST("/visitors", h.CreateVisitor)
	protected.PUT("/visitors/:id/status", h.UpdateVisitorStatus)

	protected.GET("/stats/dashboard", h.DashboardStats)
	protected.GET("/stats/heatmap", h.Heatmap)

	protected.POST("/ai/analyze-patterns", h.AnalyzePatterns)
	protected.POST("/ai/recognize-face", h.RecognizeFace)
	protected.GET("/ai/analyze-security", h.AnalyzeSecurity)

	protected.GET("/system/settings", h.SystemSettings)
	protected.PUT("/system/settings/:key", h.UpdateSetting)

	return e, nil
}
