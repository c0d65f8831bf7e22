package domain

import "time"

// Role of an authenticated dashboard user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// User is the identity attached to an authenticated session.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Department  string    `json:"department,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Permissions []string  `json:"permissions"`
	LastLogin   time.Time `json:"last_login,omitempty"`
}

// HasPermission reports whether the user carries the given permission.
// The wildcard "*" grants everything.
func (u User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == "*" || p == permission {
			return true
		}
	}
	return false
}

// Credentials are submitted once per login attempt. Method is declarative:
// it records how the user claims to have authenticated but is not verified
// independently of the username/password pair.
type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Method     string `json:"method"`
	RememberMe bool   `json:"remember_me"`
}

// AuthState is the read-only view of the session exposed to callers.
type AuthState struct {
	Authenticated bool  `json:"is_authenticated"`
	User          *User `json:"user"`
	Loading       bool  `json:"loading"`
}

// StoredSession is the persisted session record. Expiry is epoch
// milliseconds; a record with Expiry in the past is never restored.
type StoredSession struct {
	User   User  `json:"user"`
	Expiry int64 `json:"expiry"`
}

// ExpiresAt returns the expiry as a time.
func (s StoredSession) ExpiresAt() time.Time {
	return time.UnixMilli(s.Expiry)
}

type Employee struct {
	ID              int64     `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	Name            string    `json:"name"`
	Department      string    `json:"department"`
	Position        string    `json:"position"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	FaceEncoding    string    `json:"face_encoding,omitempty"`
	FingerprintHash string    `json:"fingerprint_hash,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type EntryType string

const (
	EntryCheckIn  EntryType = "check_in"
	EntryCheckOut EntryType = "check_out"
)

type RecognitionMethod string

const (
	MethodFace        RecognitionMethod = "face"
	MethodFingerprint RecognitionMethod = "fingerprint"
	MethodCard        RecognitionMethod = "card"
	MethodManual      RecognitionMethod = "manual"
)

type AttendanceRecord struct {
	ID                int64             `json:"id"`
	EmployeeID        string            `json:"employee_id"`
	EntryType         EntryType         `json:"entry_type"`
	Timestamp         time.Time         `json:"timestamp"`
	RecognitionMethod RecognitionMethod `json:"recognition_method"`
	ConfidenceScore   float64           `json:"confidence_score"`
	Location          string            `json:"location"`
	DeviceID          string            `json:"device_id,omitempty"`
	IsAnomaly         bool              `json:"is_anomaly"`
	EmployeeName      string            `json:"employee_name,omitempty"`
	Department        string            `json:"department,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

// AttendanceFilter narrows attendance queries. Zero times mean unbounded.
type AttendanceFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
}

type VisitorStatus string

const (
	VisitorPending    VisitorStatus = "pending"
	VisitorApproved   VisitorStatus = "approved"
	VisitorCheckedIn  VisitorStatus = "checked_in"
	VisitorCheckedOut VisitorStatus = "checked_out"
	VisitorRejected   VisitorStatus = "rejected"
)

type Visitor struct {
	ID             int64         `json:"id"`
	VisitorID      string        `json:"visitor_id"`
	Name           string        `json:"name"`
	Company        string        `json:"company,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	Email          string        `json:"email,omitempty"`
	Purpose        string        `json:"purpose"`
	HostEmployeeID string        `json:"host_employee_id"`
	Status         VisitorStatus `json:"status"`
	CheckInTime    *time.Time    `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time    `json:"check_out_time,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	HostName       string        `json:"host_name,omitempty"`
}

type VisitorFilter struct {
	Status VisitorStatus
	From   time.Time
	Limit  int
}

type DashboardStats struct {
	PresentToday     int                `json:"present_today"`
	TotalEmployees   int                `json:"total_employees"`
	VisitorsToday    int                `json:"visitors_today"`
	SecurityAlerts   int                `json:"security_alerts"`
	AttendanceRate   float64            `json:"attendance_rate"`
	RecentActivities []AttendanceRecord `json:"recent_activities"`
}

type HeatmapSample struct {
	ID                int64     `json:"id"`
	Location          string    `json:"location"`
	Timestamp         time.Time `json:"timestamp"`
	PersonCount       int       `json:"person_count"`
	MovementIntensity float64   `json:"movement_intensity"`
	Hour              int       `json:"hour"`
	DayOfWeek         int       `json:"day_of_week"`
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type SecurityEvent struct {
	ID              int64     `json:"id"`
	EventType       string    `json:"event_type"`
	Severity        Severity  `json:"severity"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description"`
	RelatedPersonID string    `json:"related_person_id,omitempty"`
	Resolved        bool      `json:"resolved"`
	Timestamp       time.Time `json:"timestamp"`
}

type PatternAnalysis struct {
	EmployeeID       string   `json:"employee_id"`
	AnalysisPeriod   string   `json:"analysis_period"`
	TotalDaysPresent int      `json:"total_days_present"`
	AvgCheckInHour   float64  `json:"avg_check_in_hour,omitempty"`
	AvgCheckOutHour  float64  `json:"avg_check_out_hour,omitempty"`
	AvgDailyHours    float64  `json:"avg_daily_hours"`
	PunctualityScore float64  `json:"punctuality_score"`
	RegularityScore  float64  `json:"regularity_score"`
	OverallRating    string   `json:"overall_rating"`
	Recommendations  []string `json:"recommendations"`
}

// FaceMatch is the outcome of a (simulated) face recognition attempt.
// EmployeeID is empty when no employee cleared the confidence threshold.
type FaceMatch struct {
	EmployeeID string  `json:"employee_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

type SecurityReport struct {
	Threats         []SecurityEvent `json:"threats"`
	RiskLevel       Severity        `json:"risk_level"`
	Recommendations []string        `json:"recommendations"`
}

type SystemStatus struct {
	DatabaseStatus         string    `json:"database_status"`
	AIEngineStatus         string    `json:"ai_engine_status"`
	TotalEmployees         int       `json:"total_employees"`
	TotalAttendanceRecords int       `json:"total_attendance_records"`
	TotalVisitors          int       `json:"total_visitors"`
	PendingSecurityEvents  int       `json:"pending_security_events"`
	SystemUptime           string    `json:"system_uptime"`
	LastBackup             time.Time `json:"last_backup"`
	Version                string    `json:"version"`
}

type SystemSetting struct {
	Key         string    `json:"setting_key"`
	Value       string    `json:"setting_value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
