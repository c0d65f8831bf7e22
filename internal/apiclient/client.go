// Package apiclient is the single data-access client shared by every
// dashboard view. It probes backend reachability on a fixed cadence,
// bounds every call with a timeout and transparently substitutes canned
// payloads for read endpoints while the backend is unreachable. Mutating
// endpoints never fall back to mocks.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"smart-attendance/internal/domain"
	"smart-attendance/internal/i18n"
	"smart-attendance/internal/ports"
)

const (
	// DefaultBaseURL matches the local backend the dashboard ships with.
	DefaultBaseURL = "http://localhost:5000/api"

	probeInterval  = 30 * time.Second
	requestTimeout = 5 * time.Second
	probeTimeout   = 3 * time.Second
)

// Response is the uniform envelope returned by every operation. Callers
// branch on Success only.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// BackendStatus is a display-only descriptor of the client's view of the
// backend. Reading it never triggers a probe.
type BackendStatus struct {
	Available bool   `json:"available"`
	Mode      string `json:"mode"`
	Message   string `json:"message"`
}

const (
	ModeConnected  = "connected"
	ModeSimulation = "simulation"
)

// Client is safe for concurrent use. Availability starts false and is
// mutated only by the probe (and by a network-level request failure,
// which demotes it).
type Client struct {
	baseURL        string
	http           *http.Client
	logger         ports.Logger
	lang           i18n.Lang
	now            func() time.Time
	requestTimeout time.Duration
	probeTimeout   time.Duration
	probeInterval  time.Duration
	mocks          mockTable

	mu          sync.Mutex
	available   bool
	lastChecked time.Time
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithLanguage(lang i18n.Lang) Option {
	return func(c *Client) { c.lang = lang }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeouts overrides the per-request and probe bounds, for tests.
func WithTimeouts(request, probe time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = request
		c.probeTimeout = probe
	}
}

// WithProbeInterval overrides the availability re-check cadence.
func WithProbeInterval(d time.Duration) Option {
	return func(c *Client) { c.probeInterval = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		http:           &http.Client{},
		logger:         logger,
		lang:           i18n.Default,
		now:            time.Now,
		requestTimeout: requestTimeout,
		probeTimeout:   probeTimeout,
		probeInterval:  probeInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mocks = newMockTable(c.now())
	return c
}

func (c *Client) msg(key string) string {
	return i18n.T(c.lang, key)
}

// isAvailable reads the availability flag.
func (c *Client) isAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// shouldProbe reports whether the probe interval has elapsed since the
// last check. Back-to-back calls inside the interval never re-probe.
func (c *Client) shouldProbe() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.lastChecked) > c.probeInterval
}

func (c *Client) markUnavailable() {
	c.mu.Lock()
	c.available = false
	c.mu.Unlock()
}

// Probe issues the lightweight status call and sets availability strictly
// from its outcome. lastChecked is updated regardless, so a failing
// backend is not re-probed more often than the interval.
func (c *Client) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	ok := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/system/status", nil)
	if err == nil {
		resp, doErr := c.http.Do(req)
		if doErr == nil {
			ok = resp.StatusCode >= 200 && resp.StatusCode < 300
			resp.Body.Close()
		}
	}

	c.mu.Lock()
	c.available = ok
	c.lastChecked = c.now()
	c.mu.Unlock()
	c.logger.Debug(ctx, "backend availability probe", "available", ok)
}

// CheckConnection forces a probe and returns the resulting availability.
func (c *Client) CheckConnection(ctx context.Context) bool {
	c.Probe(ctx)
	return c.isAvailable()
}

// BackendStatus is a pure read of the current availability.
func (c *Client) BackendStatus() BackendStatus {
	if c.isAvailable() {
		return BackendStatus{Available: true, Mode: ModeConnected, Message: c.msg(i18n.MsgConnected)}
	}
	return BackendStatus{Available: false, Mode: ModeSimulation, Message: c.msg(i18n.MsgSimulationMode)}
}

// request performs one envelope-returning call. Flow: refresh availability
// if the probe interval elapsed; serve the mock table while unavailable;
// otherwise issue the real call bounded by the request timeout. A network-
// level failure (not a timeout) demotes availability and falls back to the
// mock for this call too, so a transient blip never surfaces as a hard
// error when a mock exists.
func request[T any](ctx context.Context, c *Client, method, endpoint string, body any) Response[T] {
	if c.shouldProbe() {
		c.Probe(ctx)
	}
	if !c.isAvailable() {
		return mockResponse[T](c, endpoint)
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return failure[T](err.Error())
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, payload)
	if err != nil {
		return failure[T](err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn(ctx, "api request timed out", "endpoint", endpoint)
			return failure[T](c.msg(i18n.MsgRequestTimeout))
		}
		if errors.Is(err, context.Canceled) {
			return failure[T](err.Error())
		}
		// Connection refused, DNS failure and friends: the backend is
		// gone. Demote availability and serve the mock for this call.
		c.logger.Warn(ctx, "api request failed, switching to simulation mode", "endpoint", endpoint, "error", err)
		c.markUnavailable()
		return mockResponse[T](c, endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure[T](fmt.Sprintf("HTTP error: status %d", resp.StatusCode))
	}

	var out Response[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure[T](c.msg(i18n.MsgConnectionError))
	}
	return out
}

// guarded short-circuits mutating (and backend-only AI) calls while the
// backend is unavailable: no probe, no network attempt, an explicit
// simulation-mode failure. Writes never silently succeed against a mock.
func guarded[T any](ctx context.Context, c *Client, method, endpoint string, body any) Response[T] {
	if !c.isAvailable() {
		return failure[T](c.msg(i18n.MsgSimulationUnavailable))
	}
	return request[T](ctx, c, method, endpoint, body)
}

func failure[T any](message string) Response[T] {
	return Response[T]{Success: false, Error: message}
}

// MessageResult is the success payload of simple mutating endpoints.
type MessageResult struct {
	Message string `json:"message"`
}

type AttendanceResult struct {
	Message         string `json:"message"`
	AnomalyDetected bool   `json:"anomaly_detected"`
	EmployeeName    string `json:"employee_name"`
}

type VisitorResult struct {
	Message   string `json:"message"`
	VisitorID string `json:"visitor_id"`
}

type AttendanceParams struct {
	EmployeeID string
	DateFrom   string
	DateTo     string
	Limit      int
}

type VisitorParams struct {
	Status   string
	DateFrom string
	Limit    int
}

func (p AttendanceParams) encode() string {
	q := url.Values{}
	if p.EmployeeID != "" {
		q.Set("employee_id", p.EmployeeID)
	}
	if p.DateFrom != "" {
		q.Set("date_from", p.DateFrom)
	}
	if p.DateTo != "" {
		q.Set("date_to", p.DateTo)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q.Encode()
}

func (p VisitorParams) encode() string {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.DateFrom != "" {
		q.Set("date_from", p.DateFrom)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q.Encode()
}

func (c *Client) Employees(ctx context.Context) Response[[]domain.Employee] {
	return request[[]domain.Employee](ctx, c, http.MethodGet, "/employees", nil)
}

func (c *Client) AddEmployee(ctx context.Context, employee domain.Employee) Response[MessageResult] {
	return guarded[MessageResult](ctx, c, http.MethodPost, "/employees", employee)
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, employee domain.Employee) Response[MessageResult] {
	return guarded[MessageResult](ctx, c, http.MethodPut, "/employees/"+url.PathEscape(id), employee)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) Response[MessageResult] {
	return guarded[MessageResult](ctx, c, http.MethodDelete, "/employees/"+url.PathEscape(id), nil)
}

func (c *Client) Attendance(ctx context.Context, params AttendanceParams) Response[[]domain.AttendanceRecord] {
	return request[[]domain.AttendanceRecord](ctx, c, http.MethodGet, "/attendance?"+params.encode(), nil)
}

type RecordAttendanceRequest struct {
	EmployeeID        string  `json:"employee_id"`
	EntryType         string  `json:"entry_type"`
	RecognitionMethod string  `json:"recognition_method"`
	ConfidenceScore   float64 `json:"confidence_score,omitempty"`
	Location          string  `json:"location,omitempty"`
	DeviceID          string  `json:"device_id,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

func (c *Client) RecordAttendance(ctx context.Context, req RecordAttendanceRequest) Response[AttendanceResult] {
	return guarded[AttendanceResult](ctx, c, http.MethodPost, "/attendance", req)
}

func (c *Client) Visitors(ctx context.Context, params VisitorParams) Response[[]domain.Visitor] {
	return request[[]domain.Visitor](ctx, c, http.MethodGet, "/visitors?"+params.encode(), nil)
}

type NewVisitorRequest struct {
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Purpose        string `json:"purpose"`
	HostEmployeeID string `json:"host_employee_id"`
}

func (c *Client) AddVisitor(ctx context.Context, req NewVisitorRequest) Response[VisitorResult] {
	return guarded[VisitorResult](ctx, c, http.MethodPost, "/visitors", req)
}

func (c *Client) UpdateVisitorStatus(ctx context.Context, id, status string) Response[MessageResult] {
	return guarded[MessageResult](ctx, c, http.MethodPut, "/visitors/"+url.PathEscape(id)+"/status",
		map[string]string{"status": status})
}

func (c *Client) DashboardStats(ctx context.Context) Response[domain.DashboardStats] {
	return request[domain.DashboardStats](ctx, c, http.MethodGet, "/stats/dashboard", nil)
}

func (c *Client) Heatmap(ctx context.Context, days int) Response[[]domain.HeatmapSample] {
	if days <= 0 {
		days = 7
	}
	return request[[]domain.HeatmapSample](ctx, c, http.MethodGet, "/stats/heatmap?days="+strconv.Itoa(days), nil)
}

func (c *Client) AnalyzePatterns(ctx context.Context, employeeID string, days int) Response[domain.PatternAnalysis] {
	body := map[string]any{"employee_id": employeeID}
	if days > 0 {
		body["days"] = days
	}
	return guarded[domain.PatternAnalysis](ctx, c, http.MethodPost, "/ai/analyze-patterns", body)
}

func (c *Client) RecognizeFace(ctx context.Context, imageData string) Response[domain.FaceMatch] {
	return guarded[domain.FaceMatch](ctx, c, http.MethodPost, "/ai/recognize-face",
		map[string]string{"image_data": imageData})
}

func (c *Client) AnalyzeSecurity(ctx context.Context) Response[domain.SecurityReport] {
	return guarded[domain.SecurityReport](ctx, c, http.MethodGet, "/ai/analyze-security", nil)
}

func (c *Client) SystemStatus(ctx context.Context) Response[domain.SystemStatus] {
	return request[domain.SystemStatus](ctx, c, http.MethodGet, "/system/status", nil)
}

func (c *Client) SystemSettings(ctx context.Context) Response[[]domain.SystemSetting] {
	return request[[]domain.SystemSetting](ctx, c, http.MethodGet, "/system/settings", nil)
}
