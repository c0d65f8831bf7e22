package ports

import (
	"context"
	"time"

	"smart-attendance/internal/domain"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee domain.Employee) error
	Update(ctx context.Context, employee domain.Employee) error
	Delete(ctx context.Context, employeeID string) error
	GetByEmployeeID(ctx context.Context, employeeID string) (domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type AttendanceRepository interface {
	Record(ctx context.Context, record domain.AttendanceRecord) (int64, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type VisitorRepository interface {
	Create(ctx context.Context, visitor domain.Visitor) (int64, error)
	UpdateStatus(ctx context.Context, visitorID string, status domain.VisitorStatus, at time.Time) error
	List(ctx context.Context, filter domain.VisitorFilter) ([]domain.Visitor, error)
}

type SecurityEventRepository interface {
	Create(ctx context.Context, event domain.SecurityEvent) error
	ListUnresolved(ctx context.Context) ([]domain.SecurityEvent, error)
}

type StatsRepository interface {
	Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error)
	Heatmap(ctx context.Context, since time.Time) ([]domain.HeatmapSample, error)
	SystemStatus(ctx context.Context) (domain.SystemStatus, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (domain.SystemSetting, error)
	List(ctx context.Context) ([]domain.SystemSetting, error)
	Set(ctx context.Context, setting domain.SystemSetting) error
}
