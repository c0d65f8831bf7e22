// Package http exposes the backend REST surface consumed by the
// dashboard client. Every response uses the {success, data, error}
// envelope; list responses additionally carry a count.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"smart-attendance/internal/application"
	"smart-attendance/internal/domain"
	"smart-attendance/internal/infrastructure/auth"
)

const tokenTTL = 24 * time.Hour

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func okList(c echo.Context, data any, count int) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrDuplicateEntry):
		status = http.StatusConflict
	}
	return c.JSON(status, envelope{Success: false, Error: err.Error()})
}

type Handlers struct {
	employees  *application.EmployeeService
	attendance *application.AttendanceService
	visitors   *application.VisitorService
	stats      *application.StatsService
	system     *application.SystemService
	analysis   *application.AnalysisService
	tokens     *auth.TokenMiddleware
}

func NewHandlers(
	employees *application.EmployeeService,
	attendance *application.AttendanceService,
	visitors *application.VisitorService,
	stats *application.StatsService,
	system *application.SystemService,
	analysis *application.AnalysisService,
	tokens *auth.TokenMiddleware,
) *Handlers {
	return &Handlers{
		employees:  employees,
		attendance: attendance,
		visitors:   visitors,
		stats:      stats,
		system:     system,
		analysis:   analysis,
		tokens:     tokens,
	}
}

type loginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Login validates the submitted credentials and, when token auth is
// configured, returns a bearer token alongside the user.
func (h *Handlers) Login(c echo.Context) error {
	var creds domain.Credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	user, err := application.ValidateCredentials(creds)
	if err != nil {
		return fail(c, err)
	}
	resp := loginResponse{User: user}
	if h.tokens != nil {
		token, err := h.tokens.Issue(user.ID, user.Role, tokenTTL)
		if err != nil {
			return fail(c, err)
		}
		resp.Token = token
	}
	return ok(c, resp)
}

func (h *Handlers) ListEmployees(c echo.Context) error {
	employees, err := h.employees.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return okList(c, employees, len(employees))
}

func (h *Handlers) CreateEmployee(c echo.Context) error {
	var employee domain.Employee
	if err := c.Bind(&employee); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	if err := h.employees.Create(c.Request().Context(), employee); err != nil {
		return fail(c, err)
	}
	return created(c, map[string]string{"message": "employee created", "employee_id": employee.EmployeeID})
}

func (h *Handlers) UpdateEmployee(c echo.Context) error {
	var employee domain.Employee
	if err := c.Bind(&employee); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	employee.EmployeeID = c.Param("id")
	if err := h.employees.Update(c.Request().Context(), employee); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]string{"message": "employee updated"})
}

func (h *Handlers) DeleteEmployee(c echo.Context) error {
	if err := h.employees.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]string{"message": "employee deleted"})
}

func (h *Handlers) ListAttendance(c echo.Context) error {
	filter := domain.AttendanceFilter{
		EmployeeID: c.QueryParam("employee_id"),
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		filter.From = t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		// Inclusive upper bound.
		filter.To = t.AddDate(0, 0, 1)
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		filter.Limit = n
	}
	records, err := h.attendance.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, records, len(records))
}

func (h *Handlers) RecordAttendance(c echo.Context) error {
	var record domain.AttendanceRecord
	if err := c.Bind(&record); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	stored, err := h.attendance.Record(c.Request().Context(), record)
	if err != nil {
		return fail(c, err)
	}
	return created(c, map[string]any{
		"message":          "attendance recorded",
		"anomaly_detected": stored.IsAnomaly,
		"employee_name":    stored.EmployeeName,
	})
}

func (h *Handlers) ListVisitors(c echo.Context) error {
	filter := domain.VisitorFilter{
		Status: domain.VisitorStatus(c.QueryParam("status")),
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		filter.From = t
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		filter.Limit = n
	}
	visitors, err := h.visitors.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, visitors, len(visitors))
}

func (h *Handlers) CreateVisitor(c echo.Context) error {
	var visitor domain.Visitor
	if err := c.Bind(&visitor); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	stored, err := h.visitors.Create(c.Request().Context(), visitor)
	if err != nil {
		return fail(c, err)
	}
	return created(c, map[string]string{
		"message":    "visitor registered",
		"visitor_id": stored.VisitorID,
	})
}

type visitorStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) UpdateVisitorStatus(c echo.Context) error {
	var req visitorStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	err := h.visitors.UpdateStatus(c.Request().Context(), c.Param("id"), domain.VisitorStatus(req.Status))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]string{"message": "visitor status updated"})
}

func (h *Handlers) DashboardStats(c echo.Context) error {
	stats, err := h.stats.Dashboard(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}

func (h *Handlers) Heatmap(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, domain.ErrInvalidInput)
		}
		days = n
	}
	samples, err := h.stats.Heatmap(c.Request().Context(), days)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, samples, len(samples))
}

type analyzePatternsRequest struct {
	EmployeeID string `json:"employee_id"`
	Days       int    `json:"days"`
}

func (h *Handlers) AnalyzePatterns(c echo.Context) error {
	var req analyzePatternsRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	analysis, err := h.analysis.AnalyzePatterns(c.Request().Context(), req.EmployeeID, req.Days)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, analysis)
}

type recognizeFaceRequest struct {
	ImageData string `json:"image_data"`
}

func (h *Handlers) RecognizeFace(c echo.Context) error {
	var req recognizeFaceRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	match, err := h.analysis.RecognizeFace(c.Request().Context(), req.ImageData)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, match)
}

func (h *Handlers) AnalyzeSecurity(c echo.Context) error {
	report, err := h.analysis.SecurityScan(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

func (h *Handlers) SystemStatus(c echo.Context) error {
	status, err := h.system.Status(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, status)
}

func (h *Handlers) SystemSettings(c echo.Context) error {
	settings, err := h.system.Settings(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return okList(c, settings, len(settings))
}

type updateSettingRequest struct {
	Value string `json:"setting_value"`
}

func (h *Handlers) UpdateSetting(c echo.Context) error {
	var req updateSettingRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.ErrInvalidInput)
	}
	setting, err := h.system.UpdateSetting(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, setting)
}
