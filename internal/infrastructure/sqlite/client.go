// Package sqlite implements the repository ports over the product's
// bundled SQLite database using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Client struct {
	db *sql.DB
}

// NewClient opens (creating the parent directory if needed) the database
// at path and applies the connection pragmas. Use ":memory:" for tests.
func NewClient(ctx context.Context, path string) (*Client, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The modernc driver serializes on a single connection; more would
	// contend on the database lock.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		position TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		face_encoding TEXT,
		fingerprint_hash TEXT,
		is_active BOOLEAN DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		entry_type TEXT NOT NULL,
		recognition_method TEXT NOT NULL,
		confidence_score REAL,
		location TEXT,
		device_id TEXT,
		is_anomaly BOOLEAN DEFAULT 0,
		notes TEXT,
		FOREIGN KEY (employee_id) REFERENCES employees (employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		company TEXT,
		phone TEXT,
		email TEXT,
		purpose TEXT NOT NULL,
		host_employee_id TEXT,
		entry_time TIMESTAMP,
		exit_time TIMESTAMP,
		status TEXT DEFAULT 'pending',
		photo_path TEXT,
		documents TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (host_employee_id) REFERENCES employees (employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS security_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		location TEXT,
		description TEXT NOT NULL,
		related_person_id TEXT,
		resolved BOOLEAN DEFAULT 0,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		resolved_at TIMESTAMP,
		resolved_by TEXT,
		metadata TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS pattern_analysis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		pattern_type TEXT NOT NULL,
		analysis_date DATE NOT NULL,
		avg_check_in_time TIME,
		avg_check_out_time TIME,
		total_hours REAL,
		attendance_rate REAL,
		anomaly_score REAL,
		insights TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (employee_id) REFERENCES employees (employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		setting_key TEXT UNIQUE NOT NULL,
		setting_value TEXT NOT NULL,
		description TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS heatmap_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		person_count INTEGER DEFAULT 0,
		movement_intensity REAL DEFAULT 0,
		hour INTEGER,
		day_of_week INTEGER,
		metadata TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT,
		action TEXT NOT NULL,
		target_type TEXT,
		target_id TEXT,
		details TEXT,
		ip_address TEXT,
		user_agent TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

var defaultSettings = [][3]string{
	{"ai_face_threshold", "0.85", "حد الثقة للتعرف على الوجه"},
	{"ai_fingerprint_threshold", "0.90", "حد الثقة للتعرف على البصمة"},
	{"working_hours_start", "08:00", "بداية الدوام الرسمي"},
	{"working_hours_end", "17:00", "نهاية الدوام الرسمي"},
	{"anomaly_detection_enabled", "true", "تفعيل كشف الحالات الشاذة"},
	{"auto_backup_enabled", "true", "تفعيل النسخ الاحتياطي التلقائي"},
	{"max_visitors_per_day", "100", "الحد الأقصى للزوار يومياً"},
	{"system_language", "ar", "لغة النظام"},
	{"timezone", "Asia/Riyadh", "المنطقة الزمنية"},
	{"ai_model_version", "2.0.0", "إصدار نموذج الذكاء الاصطناعي"},
}

// InitSchema creates every table and inserts the default settings.
// Idempotent.
func (c *Client) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, setting := range defaultSettings {
		_, err := c.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO system_settings (setting_key, setting_value, description) VALUES (?, ?, ?)`,
			setting[0], setting[1], setting[2])
		if err != nil {
			return err
		}
	}
	return nil
}

var sampleEmployees = [][6]string{
	{"EMP001", "أحمد محمد علي", "تقنية المعلومات", "مطور برمجيات", "966501234567", "ahmed@company.com"},
	{"EMP002", "فاطمة أحمد", "الموارد البشرية", "مدير الموارد البشرية", "966502345678", "fatima@company.com"},
	{"EMP003", "محمد سعد", "المالية", "محاسب مالي", "966503456789", "mohamed@company.com"},
	{"EMP004", "نورا عبدالله", "التسويق", "مسؤول تسويق", "966504567890", "nora@company.com"},
}

// Seed inserts the demo employees. Idempotent.
func (c *Client) Seed(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range sampleEmployees {
		_, err := c.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO employees
			 (employee_id, name, department, position, phone, email, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			e[0], e[1], e[2], e[3], e[4], e[5], now, now)
		if err != nil {
			return err
		}
	}
	return nil
}
