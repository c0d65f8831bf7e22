package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"smart-attendance/internal/domain"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.InitSchema(context.Background()))
	return client
}

func testEmployee(id string) domain.Employee {
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	return domain.Employee{
		EmployeeID: id,
		Name:       "أحمد محمد",
		Department: "تقنية المعلومات",
		Position:   "مطور",
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	client := newTestClient(t)
	repo := NewEmployeeRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEmployee("EMP100")))

	got, err := repo.GetByEmployeeID(ctx, "EMP100")
	require.NoError(t, err)
	assert.Equal(t, "أحمد محمد", got.Name)
	assert.True(t, got.IsActive)

	got.Position = "مهندس برمجيات أول"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByEmployeeID(ctx, "EMP100")
	require.NoError(t, err)
	assert.Equal(t, "مهندس برمجيات أول", got.Position)

	require.NoError(t, repo.Delete(ctx, "EMP100"))
	_, err = repo.GetByEmployeeID(ctx, "EMP100")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeRepository_DuplicateID(t *testing.T) {
	client := newTestClient(t)
	repo := NewEmployeeRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEmployee("EMP100")))
	err := repo.Create(ctx, testEmployee("EMP100"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestEmployeeRepository_UpdateMissing(t *testing.T) {
	client := newTestClient(t)
	repo := NewEmployeeRepository(client)

	err := repo.Update(context.Background(), testEmployee("EMP404"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttendanceRepository_RecordAndFilter(t *testing.T) {
	client := newTestClient(t)
	employees := NewEmployeeRepository(client)
	repo := NewAttendanceRepository(client)
	ctx := context.Background()

	require.NoError(t, employees.Create(ctx, testEmployee("EMP100")))
	require.NoError(t, employees.Create(ctx, testEmployee("EMP200")))

	base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	for i, rec := range []domain.AttendanceRecord{
		{EmployeeID: "EMP100", EntryType: domain.EntryCheckIn, RecognitionMethod: domain.MethodFace, Timestamp: base},
		{EmployeeID: "EMP100", EntryType: domain.EntryCheckOut, RecognitionMethod: domain.MethodFace, Timestamp: base.Add(9 * time.Hour)},
		{EmployeeID: "EMP200", EntryType: domain.EntryCheckIn, RecognitionMethod: domain.MethodFingerprint, Timestamp: base.Add(30 * time.Minute)},
	} {
		id, err := repo.Record(ctx, rec)
		require.NoError(t, err, "record %d", i)
		assert.Positive(t, id)
	}

	all, err := repo.List(ctx, domain.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first, with the employee name joined in.
	assert.Equal(t, domain.EntryCheckOut, all[0].EntryType)
	assert.Equal(t, "أحمد محمد", all[0].EmployeeName)

	one, err := repo.List(ctx, domain.AttendanceFilter{EmployeeID: "EMP200"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, domain.MethodFingerprint, one[0].RecognitionMethod)

	ranged, err := repo.List(ctx, domain.AttendanceFilter{
		From: base.Add(15 * time.Minute),
		To:   base.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "EMP200", ranged[0].EmployeeID)

	limited, err := repo.List(ctx, domain.AttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestVisitorRepository_Lifecycle(t *testing.T) {
	client := newTestClient(t)
	repo := NewVisitorRepository(client)
	ctx := context.Background()

	created := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, domain.Visitor{
		VisitorID: "VIS-AB12CD34",
		Name:      "خالد الزائر",
		Purpose:   "اجتماع عمل",
		Status:    domain.VisitorPending,
		CreatedAt: created,
	})
	require.NoError(t, err)

	checkIn := created.Add(time.Hour)
	require.NoError(t, repo.UpdateStatus(ctx, "VIS-AB12CD34", domain.VisitorCheckedIn, checkIn))

	visitors, err := repo.List(ctx, domain.VisitorFilter{Status: domain.VisitorCheckedIn})
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	require.NotNil(t, visitors[0].CheckInTime)
	assert.Equal(t, checkIn, visitors[0].CheckInTime.UTC())
	assert.Nil(t, visitors[0].CheckOutTime)

	checkOut := created.Add(3 * time.Hour)
	require.NoError(t, repo.UpdateStatus(ctx, "VIS-AB12CD34", domain.VisitorCheckedOut, checkOut))
	visitors, err = repo.List(ctx, domain.VisitorFilter{})
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	require.NotNil(t, visitors[0].CheckOutTime)
	assert.Equal(t, checkOut, visitors[0].CheckOutTime.UTC())

	err = repo.UpdateStatus(ctx, "VIS-MISSING", domain.VisitorApproved, checkOut)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSecurityEventRepository_Unresolved(t *testing.T) {
	client := newTestClient(t)
	repo := NewSecurityEventRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.SecurityEvent{
		EventType:   "unauthorized_access",
		Severity:    domain.SeverityHigh,
		Description: "محاولة دخول غير مصرح بها",
		Timestamp:   time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Create(ctx, domain.SecurityEvent{
		EventType:   "camera_offline",
		Severity:    domain.SeverityLow,
		Description: "انقطاع كاميرا المدخل",
		Resolved:    true,
		Timestamp:   time.Date(2026, 8, 9, 3, 0, 0, 0, time.UTC),
	}))

	events, err := repo.ListUnresolved(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.SeverityHigh, events[0].Severity)
}

func TestStatsRepository_Dashboard(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Seed(context.Background()))
	attendance := NewAttendanceRepository(client)
	security := NewSecurityEventRepository(client)
	stats := NewStatsRepository(client)
	ctx := context.Background()

	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	_, err := attendance.Record(ctx, domain.AttendanceRecord{
		EmployeeID: "EMP001", EntryType: domain.EntryCheckIn,
		RecognitionMethod: domain.MethodFace, Timestamp: now.Add(-4 * time.Hour),
	})
	require.NoError(t, err)
	_, err = attendance.Record(ctx, domain.AttendanceRecord{
		EmployeeID: "EMP002", EntryType: domain.EntryCheckIn,
		RecognitionMethod: domain.MethodFace, Timestamp: now.Add(-3 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, security.Create(ctx, domain.SecurityEvent{
		EventType: "tailgating", Severity: domain.SeverityMedium,
		Description: "دخول متزامن", Timestamp: now,
	}))

	got, err := stats.Dashboard(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PresentToday)
	assert.Equal(t, 4, got.TotalEmployees)
	assert.Equal(t, 1, got.SecurityAlerts)
	assert.InDelta(t, 50.0, got.AttendanceRate, 0.001)
	assert.Len(t, got.RecentActivities, 2)
}

func TestStatsRepository_SystemStatus(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Seed(context.Background()))
	stats := NewStatsRepository(client)

	got, err := stats.SystemStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalEmployees)
	assert.Equal(t, "2.0.0", got.Version)
	assert.Equal(t, "متصل", got.DatabaseStatus)
}

func TestSettingsRepository_GetAndSet(t *testing.T) {
	client := newTestClient(t)
	repo := NewSettingsRepository(client)
	ctx := context.Background()

	threshold, err := repo.Get(ctx, "ai_face_threshold")
	require.NoError(t, err)
	assert.Equal(t, "0.85", threshold.Value)

	threshold.Value = "0.92"
	require.NoError(t, repo.Set(ctx, threshold))
	threshold, err = repo.Get(ctx, "ai_face_threshold")
	require.NoError(t, err)
	assert.Equal(t, "0.92", threshold.Value)

	_, err = repo.Get(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 10)

	err = repo.Set(ctx, domain.SystemSetting{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
