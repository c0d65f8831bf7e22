package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"smart-attendance/internal/domain"
	"smart-attendance/internal/ports"
)

type EmployeeService struct {
	repo ports.EmployeeRepository
}

func NewEmployeeService(repo ports.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) Create(ctx context.Context, employee domain.Employee) error {
	if employee.EmployeeID == "" || employee.Name == "" || employee.Department == "" || employee.Position == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	employee.IsActive = true
	return s.repo.Create(ctx, employee)
}

func (s *EmployeeService) Update(ctx context.Context, employee domain.Employee) error {
	if employee.EmployeeID == "" || employee.Name == "" {
		return domain.ErrInvalidInput
	}
	employee.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, employee)
}

func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, employeeID)
}

func (s *EmployeeService) GetByEmployeeID(ctx context.Context, employeeID string) (domain.Employee, error) {
	if employeeID == "" {
		return domain.Employee{}, domain.ErrInvalidInput
	}
	return s.repo.GetByEmployeeID(ctx, employeeID)
}

func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.List(ctx)
}

type AttendanceService struct {
	repo     ports.AttendanceRepository
	empRepo  ports.EmployeeRepository
	settings ports.SettingsRepository
}

func NewAttendanceService(repo ports.AttendanceRepository, empRepo ports.EmployeeRepository, settings ports.SettingsRepository) *AttendanceService {
	return &AttendanceService{repo: repo, empRepo: empRepo, settings: settings}
}

func validEntryType(t domain.EntryType) bool {
	return t == domain.EntryCheckIn || t == domain.EntryCheckOut
}

func validRecognitionMethod(m domain.RecognitionMethod) bool {
	switch m {
	case domain.MethodFace, domain.MethodFingerprint, domain.MethodCard, domain.MethodManual:
		return true
	}
	return false
}

// Record stores one check-in/out event. The employee must exist; late
// check-ins relative to the configured working hours are flagged as
// anomalies when anomaly detection is enabled.
func (s *AttendanceService) Record(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	if record.EmployeeID == "" || !validEntryType(record.EntryType) || !validRecognitionMethod(record.RecognitionMethod) {
		return domain.AttendanceRecord{}, domain.ErrInvalidInput
	}
	employee, err := s.empRepo.GetByEmployeeID(ctx, record.EmployeeID)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.DeviceID == "" {
		record.DeviceID = "dev-" + uuid.NewString()[:8]
	}
	record.EmployeeName = employee.Name
	record.Department = employee.Department
	record.IsAnomaly = s.isAnomalous(ctx, record)

	id, err := s.repo.Record(ctx, record)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	record.ID = id
	return record, nil
}

func (s *AttendanceService) isAnomalous(ctx context.Context, record domain.AttendanceRecord) bool {
	enabled, err := s.settings.Get(ctx, "anomaly_detection_enabled")
	if err != nil || enabled.Value != "true" {
		return false
	}
	start, err := s.settings.Get(ctx, "working_hours_start")
	if err != nil {
		return false
	}
	startHour := parseHour(start.Value, 8)
	// A check-in more than two hours past the official start is flagged.
	return record.EntryType == domain.EntryCheckIn && record.Timestamp.Hour() >= startHour+2
}

func parseHour(v string, fallback int) int {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) == 0 {
		return fallback
	}
	hour := 0
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return fallback
		}
		hour = hour*10 + int(r-'0')
	}
	if hour > 23 {
		return fallback
	}
	return hour
}

func (s *AttendanceService) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

type VisitorService struct {
	repo    ports.VisitorRepository
	empRepo ports.EmployeeRepository
}

func NewVisitorService(repo ports.VisitorRepository, empRepo ports.EmployeeRepository) *VisitorService {
	return &VisitorService{repo: repo, empRepo: empRepo}
}

func (s *VisitorService) Create(ctx context.Context, visitor domain.Visitor) (domain.Visitor, error) {
	if visitor.Name == "" || visitor.Purpose == "" || visitor.HostEmployeeID == "" {
		return domain.Visitor{}, domain.ErrInvalidInput
	}
	host, err := s.empRepo.GetByEmployeeID(ctx, visitor.HostEmployeeID)
	if err != nil {
		return domain.Visitor{}, err
	}
	visitor.VisitorID = "VIS-" + strings.ToUpper(uuid.NewString()[:8])
	visitor.Status = domain.VisitorPending
	visitor.CreatedAt = time.Now().UTC()
	visitor.HostName = host.Name

	id, err := s.repo.Create(ctx, visitor)
	if err != nil {
		return domain.Visitor{}, err
	}
	visitor.ID = id
	return visitor, nil
}

func validVisitorStatus(status domain.VisitorStatus) bool {
	switch status {
	case domain.VisitorPending, domain.VisitorApproved, domain.VisitorCheckedIn,
		domain.VisitorCheckedOut, domain.VisitorRejected:
		return true
	}
	return false
}

func (s *VisitorService) UpdateStatus(ctx context.Context, visitorID string, status domain.VisitorStatus) error {
	if visitorID == "" || !validVisitorStatus(status) {
		return domain.ErrInvalidInput
	}
	return s.repo.UpdateStatus(ctx, visitorID, status, time.Now().UTC())
}

func (s *VisitorService) List(ctx context.Context, filter domain.VisitorFilter) ([]domain.Visitor, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Status != "" && !validVisitorStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

type StatsService struct {
	repo ports.StatsRepository
}

func NewStatsService(repo ports.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	return s.repo.Dashboard(ctx, time.Now().UTC())
}

func (s *StatsService) Heatmap(ctx context.Context, days int) ([]domain.HeatmapSample, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		return nil, domain.ErrInvalidInput
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.Heatmap(ctx, since)
}

type SystemService struct {
	stats    ports.StatsRepository
	settings ports.SettingsRepository
}

func NewSystemService(stats ports.StatsRepository, settings ports.SettingsRepository) *SystemService {
	return &SystemService{stats: stats, settings: settings}
}

func (s *SystemService) Status(ctx context.Context) (domain.SystemStatus, error) {
	return s.stats.SystemStatus(ctx)
}

func (s *SystemService) Settings(ctx context.Context) ([]domain.SystemSetting, error) {
	return s.settings.List(ctx)
}

// UpdateSetting overwrites one setting value. The key must already exist;
// new keys are only created through schema initialization.
func (s *SystemService) UpdateSetting(ctx context.Context, key, value string) (domain.SystemSetting, error) {
	if key == "" || value == "" {
		return domain.SystemSetting{}, domain.ErrInvalidInput
	}
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return domain.SystemSetting{}, err
	}
	setting.Value = value
	if err := s.settings.Set(ctx, setting); err != nil {
		return domain.SystemSetting{}, err
	}
	return s.settings.Get(ctx, key)
}
