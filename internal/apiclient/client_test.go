package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-attendance/internal/i18n"
)

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Debug(context.Context, string, ...any) {}

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestCheckConnection_AgainstLiveBackend(t *testing.T) {
	var probes atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system/status" {
			probes.Add(1)
		}
		w.Write([]byte(`{"success":true}`))
	})
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"))

	assert.True(t, c.CheckConnection(context.Background()))
	assert.Equal(t, int32(1), probes.Load())

	status := c.BackendStatus()
	assert.True(t, status.Available)
	assert.Equal(t, ModeConnected, status.Mode)
}

func TestProbe_SuppressedInsideInterval(t *testing.T) {
	var probes atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system/status" {
			probes.Add(1)
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	c := New(noopLogger{},
		WithBaseURL(srv.URL+"/api"),
		WithClock(func() time.Time { return now }))

	// Back-to-back reads share a single probe.
	c.Employees(context.Background())
	c.Employees(context.Background())
	c.Employees(context.Background())
	assert.Equal(t, int32(1), probes.Load())

	// Past the interval the next read probes again.
	now = now.Add(31 * time.Second)
	c.Employees(context.Background())
	assert.Equal(t, int32(2), probes.Load())
}

func TestRead_FallsBackToMockWhenUnavailable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(okHandler(`{}`))
	url := srv.URL
	srv.Close()

	c := New(noopLogger{}, WithBaseURL(url+"/api"))
	c.CheckConnection(context.Background())
	require.False(t, c.BackendStatus().Available)

	resp := c.DashboardStats(context.Background())
	require.True(t, resp.Success)
	assert.Equal(t, 23, resp.Data.PresentToday)
	assert.Equal(t, 45, resp.Data.TotalEmployees)
	assert.Equal(t, 8, resp.Data.VisitorsToday)
	assert.Equal(t, 2, resp.Data.SecurityAlerts)
	assert.Equal(t, 87.3, resp.Data.AttendanceRate)
	require.Len(t, resp.Data.RecentActivities, 2)
	assert.Equal(t, "أحمد محمد علي", resp.Data.RecentActivities[0].EmployeeName)

	// Repeated calls return identical data.
	again := c.DashboardStats(context.Background())
	assert.Equal(t, resp.Data, again.Data)

	employees := c.Employees(context.Background())
	require.True(t, employees.Success)
	assert.Equal(t, 2, employees.Count)
	assert.Equal(t, "EMP001", employees.Data[0].EmployeeID)

	attendance := c.Attendance(context.Background(), AttendanceParams{})
	require.True(t, attendance.Success)
	assert.Empty(t, attendance.Data)

	visitors := c.Visitors(context.Background(), VisitorParams{})
	require.True(t, visitors.Success)
	assert.Empty(t, visitors.Data)
}

func TestRead_UnmockedEndpointFailsWhenUnavailable(t *testing.T) {
	srv := httptest.NewServer(okHandler(`{}`))
	url := srv.URL
	srv.Close()

	c := New(noopLogger{}, WithBaseURL(url+"/api"), WithLanguage(i18n.English))

	resp := c.Heatmap(context.Background(), 7)
	assert.False(t, resp.Success)
	assert.Equal(t, i18n.T(i18n.English, i18n.MsgBackendUnavailable), resp.Error)
}

func TestWrite_ShortCircuitsWithoutNetworkHit(t *testing.T) {
	var hits atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"success":true}`))
	})

	// Availability starts false; writes must not probe or touch the wire.
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"), WithLanguage(i18n.English))

	resp := c.RecordAttendance(context.Background(), RecordAttendanceRequest{
		EmployeeID: "EMP001", EntryType: "check_in", RecognitionMethod: "face",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, i18n.T(i18n.English, i18n.MsgSimulationUnavailable), resp.Error)
	assert.Equal(t, int32(0), hits.Load())

	del := c.DeleteEmployee(context.Background(), "EMP001")
	assert.False(t, del.Success)
	assert.Equal(t, int32(0), hits.Load())
}

func TestWrite_PassesThroughWhenAvailable(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"message":"employee deleted"}}`))
	})
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"))
	require.True(t, c.CheckConnection(context.Background()))

	resp := c.DeleteEmployee(context.Background(), "EMP001")
	require.True(t, resp.Success)
	assert.Equal(t, "employee deleted", resp.Data.Message)
}

func TestRequest_TimeoutYieldsFailureEnvelope(t *testing.T) {
	release := make(chan struct{})
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system/status" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		<-release
	})
	t.Cleanup(func() { close(release) })

	c := New(noopLogger{},
		WithBaseURL(srv.URL+"/api"),
		WithLanguage(i18n.English),
		WithTimeouts(50*time.Millisecond, time.Second))
	require.True(t, c.CheckConnection(context.Background()))

	resp := c.Employees(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, i18n.T(i18n.English, i18n.MsgRequestTimeout), resp.Error)

	// A timeout does not demote availability.
	assert.True(t, c.BackendStatus().Available)
}

func TestRequest_Non2xxYieldsFailureEnvelope(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system/status" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"))
	require.True(t, c.CheckConnection(context.Background()))

	resp := c.Employees(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, "HTTP error: status 500", resp.Error)

	// A rejected request is still a reachable backend.
	assert.True(t, c.BackendStatus().Available)
}

func TestRequest_NetworkFailureDemotesAndServesMock(t *testing.T) {
	srv := httptest.NewServer(okHandler(`{"success":true}`))
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"))
	require.True(t, c.CheckConnection(context.Background()))

	// Backend dies between the probe and the read.
	srv.Close()

	resp := c.DashboardStats(context.Background())
	require.True(t, resp.Success)
	assert.Equal(t, 23, resp.Data.PresentToday)
	assert.False(t, c.BackendStatus().Available)
}

func TestBackendStatus_IsPure(t *testing.T) {
	var probes atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Write([]byte(`{"success":true}`))
	})
	c := New(noopLogger{}, WithBaseURL(srv.URL+"/api"))

	for i := 0; i < 5; i++ {
		c.BackendStatus()
	}
	assert.Equal(t, int32(0), probes.Load())

	status := c.BackendStatus()
	assert.False(t, status.Available)
	assert.Equal(t, ModeSimulation, status.Mode)
	assert.Equal(t, i18n.T(i18n.Default, i18n.MsgSimulationMode), status.Message)
}

func TestBackendStatus_LocalizedMessages(t *testing.T) {
	c := New(noopLogger{}, WithLanguage(i18n.English))
	assert.Equal(t, i18n.T(i18n.English, i18n.MsgSimulationMode), c.BackendStatus().Message)

	ar := New(noopLogger{}, WithLanguage(i18n.Arabic))
	assert.Equal(t, i18n.T(i18n.Arabic, i18n.MsgSimulationMode), ar.BackendStatus().Message)
}
