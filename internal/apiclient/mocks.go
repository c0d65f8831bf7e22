package apiclient

import (
	"encoding/json"
	"strings"
	"time"

	"smart-attendance/internal/domain"
	"smart-attendance/internal/i18n"
)

// mockTable is the fixed mapping from endpoint to canned payload, built
// once at client construction and immutable afterwards. Shapes match the
// real API's success responses exactly.
type mockTable struct {
	dashboard    domain.DashboardStats
	employees    []domain.Employee
	systemStatus domain.SystemStatus
}

func newMockTable(now time.Time) mockTable {
	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return mockTable{
		dashboard: domain.DashboardStats{
			PresentToday:   23,
			TotalEmployees: 45,
			VisitorsToday:  8,
			SecurityAlerts: 2,
			AttendanceRate: 87.3,
			RecentActivities: []domain.AttendanceRecord{
				{
					ID:                1,
					EmployeeID:        "EMP001",
					EmployeeName:      "أحمد محمد علي",
					Timestamp:         now,
					EntryType:         domain.EntryCheckIn,
					RecognitionMethod: domain.MethodFace,
					ConfidenceScore:   0.97,
					Location:          "المدخل الرئيسي",
				},
				{
					ID:                2,
					EmployeeID:        "EMP002",
					EmployeeName:      "فاطمة أحمد",
					Timestamp:         now.Add(-30 * time.Minute),
					EntryType:         domain.EntryCheckOut,
					RecognitionMethod: domain.MethodFingerprint,
					ConfidenceScore:   0.95,
					Location:          "المدخل الرئيسي",
				},
			},
		},
		employees: []domain.Employee{
			{
				ID:         1,
				EmployeeID: "EMP001",
				Name:       "أحمد محمد علي",
				Department: "تقنية المعلومات",
				Position:   "مطور برمجيات",
				Phone:      "966501234567",
				Email:      "ahmed@company.com",
				IsActive:   true,
				CreatedAt:  created,
				UpdatedAt:  created,
			},
			{
				ID:         2,
				EmployeeID: "EMP002",
				Name:       "فاطمة أحمد",
				Department: "الموارد البشرية",
				Position:   "مدير الموارد البشرية",
				Phone:      "966502345678",
				Email:      "fatima@company.com",
				IsActive:   true,
				CreatedAt:  created,
				UpdatedAt:  created,
			},
		},
		systemStatus: domain.SystemStatus{
			DatabaseStatus:         "غير متصل - وضع محاكاة",
			AIEngineStatus:         "غير متصل - وضع محاكاة",
			TotalEmployees:         45,
			TotalAttendanceRecords: 1250,
			TotalVisitors:          89,
			PendingSecurityEvents:  2,
			SystemUptime:           "99.9%",
			LastBackup:             now,
			Version:                "2.0.0",
		},
	}
}

// mockResponse resolves the canned payload for an endpoint. Attendance and
// visitor reads mock to empty lists; an endpoint with no entry yields the
// generic unavailable failure rather than fabricated data.
func mockResponse[T any](c *Client, endpoint string) Response[T] {
	switch {
	case endpoint == "/stats/dashboard":
		return remarshal[T](c.mocks.dashboard, 0)
	case endpoint == "/employees":
		return remarshal[T](c.mocks.employees, len(c.mocks.employees))
	case endpoint == "/system/status":
		return remarshal[T](c.mocks.systemStatus, 0)
	case strings.HasPrefix(endpoint, "/attendance"):
		return remarshal[T]([]domain.AttendanceRecord{}, 0)
	case strings.HasPrefix(endpoint, "/visitors"):
		return remarshal[T]([]domain.Visitor{}, 0)
	default:
		return failure[T](c.msg(i18n.MsgBackendUnavailable))
	}
}

// remarshal routes a canned value through JSON so the mock path produces
// exactly the shape a real response would decode to.
func remarshal[T any](value any, count int) Response[T] {
	raw, err := json.Marshal(value)
	if err != nil {
		return failure[T](err.Error())
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return failure[T](err.Error())
	}
	return Response[T]{Success: true, Data: data, Count: count}
}
