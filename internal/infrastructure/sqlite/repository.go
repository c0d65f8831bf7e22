package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"smart-attendance/internal/domain"
)

type EmployeeRepository struct{ client *Client }

type AttendanceRepository struct{ client *Client }

type VisitorRepository struct{ client *Client }

type SecurityEventRepository struct{ client *Client }

type StatsRepository struct{ client *Client }

type SettingsRepository struct{ client *Client }

func NewEmployeeRepository(client *Client) *EmployeeRepository {
	return &EmployeeRepository{client: client}
}

func NewAttendanceRepository(client *Client) *AttendanceRepository {
	return &AttendanceRepository{client: client}
}

func NewVisitorRepository(client *Client) *VisitorRepository {
	return &VisitorRepository{client: client}
}

func NewSecurityEventRepository(client *Client) *SecurityEventRepository {
	return &SecurityEventRepository{client: client}
}

func NewStatsRepository(client *Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func NewSettingsRepository(client *Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

func (r *EmployeeRepository) Create(ctx context.Context, employee domain.Employee) error {
	_, err := r.client.db.ExecContext(ctx,
		`INSERT INTO employees
		 (employee_id, name, department, position, phone, email, face_encoding, fingerprint_hash, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		employee.EmployeeID, employee.Name, employee.Department, employee.Position,
		employee.Phone, employee.Email, employee.FaceEncoding, employee.FingerprintHash,
		employee.IsActive, formatTime(employee.CreatedAt), formatTime(employee.UpdatedAt))
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEntry
	}
	return err
}

func (r *EmployeeRepository) Update(ctx context.Context, employee domain.Employee) error {
	res, err := r.client.db.ExecContext(ctx,
		`UPDATE employees SET name = ?, department = ?, position = ?, phone = ?, email = ?, is_active = ?, updated_at = ?
		 WHERE employee_id = ?`,
		employee.Name, employee.Department, employee.Position, employee.Phone,
		employee.Email, employee.IsActive, formatTime(employee.UpdatedAt), employee.EmployeeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	res, err := r.client.db.ExecContext(ctx,
		`DELETE FROM employees WHERE employee_id = ?`, employeeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const employeeColumns = `id, employee_id, name, department, position,
	COALESCE(phone, ''), COALESCE(email, ''), COALESCE(face_encoding, ''),
	COALESCE(fingerprint_hash, ''), is_active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (domain.Employee, error) {
	var e domain.Employee
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Department, &e.Position,
		&e.Phone, &e.Email, &e.FaceEncoding, &e.FingerprintHash, &e.IsActive,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Employee{}, err
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (domain.Employee, error) {
	row := r.client.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = ?`, employeeID)
	employee, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, domain.ErrNotFound
	}
	return employee, err
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.client.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	employees := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (r *AttendanceRepository) Record(ctx context.Context, record domain.AttendanceRecord) (int64, error) {
	res, err := r.client.db.ExecContext(ctx,
		`INSERT INTO attendance_logs
		 (employee_id, timestamp, entry_type, recognition_method, confidence_score, location, device_id, is_anomaly, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.EmployeeID, formatTime(record.Timestamp), string(record.EntryType),
		string(record.RecognitionMethod), record.ConfidenceScore, record.Location,
		record.DeviceID, record.IsAnomaly, record.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *AttendanceRepository) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	query := `SELECT a.id, a.employee_id, a.timestamp, a.entry_type, a.recognition_method,
		COALESCE(a.confidence_score, 0), COALESCE(a.location, ''), COALESCE(a.device_id, ''),
		a.is_anomaly, COALESCE(a.notes, ''), COALESCE(e.name, ''), COALESCE(e.department, '')
		FROM attendance_logs a
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		WHERE 1=1`
	args := []any{}
	if filter.EmployeeID != "" {
		query += ` AND a.employee_id = ?`
		args = append(args, filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		query += ` AND a.timestamp >= ?`
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND a.timestamp <= ?`
		args = append(args, formatTime(filter.To))
	}
	query += ` ORDER BY a.timestamp DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.client.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []domain.AttendanceRecord{}
	for rows.Next() {
		var rec domain.AttendanceRecord
		var ts, entryType, method string
		err := rows.Scan(&rec.ID, &rec.EmployeeID, &ts, &entryType, &method,
			&rec.ConfidenceScore, &rec.Location, &rec.DeviceID, &rec.IsAnomaly,
			&rec.Notes, &rec.EmployeeName, &rec.Department)
		if err != nil {
			return nil, err
		}
		rec.Timestamp = parseTime(ts)
		rec.EntryType = domain.EntryType(entryType)
		rec.RecognitionMethod = domain.RecognitionMethod(method)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *VisitorRepository) Create(ctx context.Context, visitor domain.Visitor) (int64, error) {
	res, err := r.client.db.ExecContext(ctx,
		`INSERT INTO visitors (visitor_id, name, company, phone, email, purpose, host_employee_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		visitor.VisitorID, visitor.Name, visitor.Company, visitor.Phone, visitor.Email,
		visitor.Purpose, visitor.HostEmployeeID, string(visitor.Status), formatTime(visitor.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateEntry
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *VisitorRepository) UpdateStatus(ctx context.Context, visitorID string, status domain.VisitorStatus, at time.Time) error {
	query := `UPDATE visitors SET status = ?`
	args := []any{string(status)}
	switch status {
	case domain.VisitorCheckedIn:
		query += `, entry_time = ?`
		args = append(args, formatTime(at))
	case domain.VisitorCheckedOut:
		query += `, exit_time = ?`
		args = append(args, formatTime(at))
	}
	query += ` WHERE visitor_id = ?`
	args = append(args, visitorID)

	res, err := r.client.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VisitorRepository) List(ctx context.Context, filter domain.VisitorFilter) ([]domain.Visitor, error) {
	query := `SELECT v.id, v.visitor_id, v.name, COALESCE(v.company, ''), COALESCE(v.phone, ''),
		COALESCE(v.email, ''), v.purpose, COALESCE(v.host_employee_id, ''), v.status,
		v.entry_time, v.exit_time, v.created_at, COALESCE(e.name, '')
		FROM visitors v
		LEFT JOIN employees e ON e.employee_id = v.host_employee_id
		WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		query += ` AND v.status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.From.IsZero() {
		query += ` AND v.created_at >= ?`
		args = append(args, formatTime(filter.From))
	}
	query += ` ORDER BY v.created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.client.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	visitors := []domain.Visitor{}
	for rows.Next() {
		var v domain.Visitor
		var status, createdAt string
		var entry, exit sql.NullString
		err := rows.Scan(&v.ID, &v.VisitorID, &v.Name, &v.Company, &v.Phone, &v.Email,
			&v.Purpose, &v.HostEmployeeID, &status, &entry, &exit, &createdAt, &v.HostName)
		if err != nil {
			return nil, err
		}
		v.Status = domain.VisitorStatus(status)
		v.CreatedAt = parseTime(createdAt)
		if entry.Valid {
			t := parseTime(entry.String)
			v.CheckInTime = &t
		}
		if exit.Valid {
			t := parseTime(exit.String)
			v.CheckOutTime = &t
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (r *SecurityEventRepository) Create(ctx context.Context, event domain.SecurityEvent) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.client.db.ExecContext(ctx,
		`INSERT INTO security_events (event_type, severity, location, description, related_person_id, resolved, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.EventType, string(event.Severity), event.Location, event.Description,
		event.RelatedPersonID, event.Resolved, formatTime(ts))
	return err
}

func (r *SecurityEventRepository) ListUnresolved(ctx context.Context) ([]domain.SecurityEvent, error) {
	rows, err := r.client.db.QueryContext(ctx,
		`SELECT id, event_type, severity, COALESCE(location, ''), description,
		 COALESCE(related_person_id, ''), resolved, timestamp
		 FROM security_events WHERE resolved = 0 ORDER BY timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []domain.SecurityEvent{}
	for rows.Next() {
		var e domain.SecurityEvent
		var severity, ts string
		err := rows.Scan(&e.ID, &e.EventType, &severity, &e.Location, &e.Description,
			&e.RelatedPersonID, &e.Resolved, &ts)
		if err != nil {
			return nil, err
		}
		e.Severity = domain.Severity(severity)
		e.Timestamp = parseTime(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *StatsRepository) Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error) {
	stats := domain.DashboardStats{RecentActivities: []domain.AttendanceRecord{}}
	day := now.UTC().Format("2006-01-02")

	err := r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT employee_id) FROM attendance_logs
		 WHERE entry_type = 'check_in' AND date(timestamp) = ?`, day).Scan(&stats.PresentToday)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	err = r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employees WHERE is_active = 1`).Scan(&stats.TotalEmployees)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	err = r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visitors WHERE date(created_at) = ?`, day).Scan(&stats.VisitorsToday)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	err = r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM security_events WHERE resolved = 0`).Scan(&stats.SecurityAlerts)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.TotalEmployees > 0 {
		stats.AttendanceRate = float64(stats.PresentToday) / float64(stats.TotalEmployees) * 100
	}

	recent, err := NewAttendanceRepository(r.client).List(ctx, domain.AttendanceFilter{Limit: 10})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	stats.RecentActivities = recent
	return stats, nil
}

func (r *StatsRepository) Heatmap(ctx context.Context, since time.Time) ([]domain.HeatmapSample, error) {
	rows, err := r.client.db.QueryContext(ctx,
		`SELECT id, location, timestamp, person_count, movement_intensity,
		 COALESCE(hour, 0), COALESCE(day_of_week, 0)
		 FROM heatmap_data WHERE timestamp >= ? ORDER BY timestamp`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	samples := []domain.HeatmapSample{}
	for rows.Next() {
		var s domain.HeatmapSample
		var ts string
		err := rows.Scan(&s.ID, &s.Location, &ts, &s.PersonCount, &s.MovementIntensity, &s.Hour, &s.DayOfWeek)
		if err != nil {
			return nil, err
		}
		s.Timestamp = parseTime(ts)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func (r *StatsRepository) SystemStatus(ctx context.Context) (domain.SystemStatus, error) {
	status := domain.SystemStatus{
		DatabaseStatus: "متصل",
		AIEngineStatus: "متصل",
		SystemUptime:   "99.9%",
		LastBackup:     time.Now().UTC(),
	}
	if err := r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employees`).Scan(&status.TotalEmployees); err != nil {
		return domain.SystemStatus{}, err
	}
	if err := r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_logs`).Scan(&status.TotalAttendanceRecords); err != nil {
		return domain.SystemStatus{}, err
	}
	if err := r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visitors`).Scan(&status.TotalVisitors); err != nil {
		return domain.SystemStatus{}, err
	}
	if err := r.client.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM security_events WHERE resolved = 0`).Scan(&status.PendingSecurityEvents); err != nil {
		return domain.SystemStatus{}, err
	}
	var version sql.NullString
	err := r.client.db.QueryRowContext(ctx,
		`SELECT setting_value FROM system_settings WHERE setting_key = 'ai_model_version'`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.SystemStatus{}, err
	}
	if version.Valid {
		status.Version = version.String
	}
	return status, nil
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (domain.SystemSetting, error) {
	var s domain.SystemSetting
	var desc sql.NullString
	var updatedAt string
	err := r.client.db.QueryRowContext(ctx,
		`SELECT setting_key, setting_value, description, updated_at FROM system_settings WHERE setting_key = ?`,
		key).Scan(&s.Key, &s.Value, &desc, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SystemSetting{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SystemSetting{}, err
	}
	s.Description = desc.String
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

func (r *SettingsRepository) List(ctx context.Context) ([]domain.SystemSetting, error) {
	rows, err := r.client.db.QueryContext(ctx,
		`SELECT setting_key, setting_value, COALESCE(description, ''), updated_at FROM system_settings ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	settings := []domain.SystemSetting{}
	for rows.Next() {
		var s domain.SystemSetting
		var updatedAt string
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updatedAt)
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *SettingsRepository) Set(ctx context.Context, setting domain.SystemSetting) error {
	if setting.Key == "" {
		return domain.ErrInvalidInput
	}
	_, err := r.client.db.ExecContext(ctx,
		`INSERT INTO system_settings (setting_key, setting_value, description, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		setting.Key, setting.Value, setting.Description, formatTime(time.Now()))
	return err
}
