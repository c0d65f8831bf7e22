package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"smart-attendance/internal/domain"
	"smart-attendance/internal/ports"
)

// SessionTTL is how long a remembered session stays valid.
const SessionTTL = 30 * 24 * time.Hour

type credentialRecord struct {
	username string
	password string
	userID   string
}

// Demo credential table. Usernames are unique; the biometric aliases all
// resolve to the admin identity because the recognition flow is simulated.
var demoCredentials = []credentialRecord{
	{username: "admin", password: "admin123", userID: "admin-001"},
	{username: "manager", password: "manager123", userID: "manager-001"},
	{username: "employee", password: "emp123", userID: "emp-001"},
	{username: "biometric", password: "bio123", userID: "admin-001"},
	{username: "face", password: "face123", userID: "admin-001"},
	{username: "fingerprint", password: "finger123", userID: "admin-001"},
}

var demoUsers = map[string]domain.User{
	"admin-001": {
		ID:          "admin-001",
		Name:        "أحمد المدير",
		Email:       "admin@company.com",
		Role:        domain.RoleAdmin,
		Department:  "الإدارة",
		Permissions: []string{"*"},
	},
	"manager-001": {
		ID:          "manager-001",
		Name:        "فاطمة المدير",
		Email:       "manager@company.com",
		Role:        domain.RoleManager,
		Department:  "الموارد البشرية",
		Permissions: []string{"employees.read", "attendance.read", "reports.read"},
	},
	"emp-001": {
		ID:          "emp-001",
		Name:        "محمد الموظف",
		Email:       "employee@company.com",
		Role:        domain.RoleEmployee,
		Department:  "تقنية المعلومات",
		Permissions: []string{"attendance.own"},
	},
}

// ValidateCredentials resolves a username/password pair against the fixed
// credential table. The declared method is accepted as-is: any method
// succeeds when the pair matches a record. Shared by the client-side
// session manager and the backend token endpoint.
func ValidateCredentials(creds domain.Credentials) (domain.User, error) {
	for _, record := range demoCredentials {
		if record.username == creds.Username && record.password == creds.Password {
			user, ok := demoUsers[record.userID]
			if !ok {
				return domain.User{}, domain.ErrNotFound
			}
			return user, nil
		}
	}
	return domain.User{}, domain.ErrInvalidCredentials
}

// SessionManager owns the authentication state: the current user, the
// authenticated flag and the startup loading flag. State moves loading ->
// {authenticated, unauthenticated} on Restore, unauthenticated ->
// authenticated on a successful Login and back on Logout. No other
// transitions exist.
type SessionManager struct {
	store      ports.SessionStore
	logger     ports.Logger
	now        func() time.Time
	loginDelay time.Duration

	mu      sync.Mutex
	user    *domain.User
	loading bool
}

type SessionOption func(*SessionManager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// WithLoginDelay inserts an artificial processing delay into Login,
// mimicking the latency of a real verification backend.
func WithLoginDelay(d time.Duration) SessionOption {
	return func(m *SessionManager) { m.loginDelay = d }
}

func NewSessionManager(store ports.SessionStore, logger ports.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store:   store,
		logger:  logger,
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the persisted session on process start. A record with its
// expiry in the past is deleted and the manager starts unauthenticated.
// Restore always clears the loading flag.
func (m *SessionManager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	session, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.logger.Warn(ctx, "discarding unreadable session record", "error", err)
			_ = m.store.Clear()
		}
		return
	}
	if !m.now().Before(session.ExpiresAt()) {
		m.logger.Info(ctx, "removing expired session", "user_id", session.User.ID)
		_ = m.store.Clear()
		return
	}
	user := session.User
	m.user = &user
	m.logger.Info(ctx, "session restored", "user_id", user.ID, "role", user.Role)
}

// Login validates the credentials and, on success, establishes the
// session. With RememberMe set the session is persisted with an absolute
// expiry of now + SessionTTL. Invalid credentials is the only expected
// failure and leaves the session unauthenticated.
func (m *SessionManager) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if m.loginDelay > 0 {
		select {
		case <-time.After(m.loginDelay):
		case <-ctx.Done():
			return domain.User{}, ctx.Err()
		}
	}

	user, err := ValidateCredentials(creds)
	if err != nil {
		m.mu.Lock()
		m.user = nil
		m.loading = false
		m.mu.Unlock()
		m.logger.Warn(ctx, "login rejected", "username", creds.Username)
		return domain.User{}, err
	}

	user.LastLogin = m.now()

	m.mu.Lock()
	u := user
	m.user = &u
	m.loading = false
	m.mu.Unlock()

	if creds.RememberMe {
		session := domain.StoredSession{
			User:   user,
			Expiry: m.now().Add(SessionTTL).UnixMilli(),
		}
		if err := m.store.Save(session); err != nil {
			m.logger.Warn(ctx, "failed to persist session", "error", err)
		}
	}
	m.logger.Info(ctx, "login succeeded", "user_id", user.ID, "role", user.Role, "method", creds.Method)
	return user, nil
}

// Logout clears the session and removes any persisted record. It never
// touches the network and is safe to call in any state.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.loading = false
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.logger.Warn(ctx, "failed to remove persisted session", "error", err)
	}
}

// RefreshAuth bumps LastLogin for an existing session; no-op otherwise.
func (m *SessionManager) RefreshAuth() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil {
		m.user.LastLogin = m.now()
	}
}

// State returns a snapshot of the session. Authenticated is true exactly
// when a user is present.
func (m *SessionManager) State() domain.AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := domain.AuthState{Loading: m.loading}
	if m.user != nil {
		u := *m.user
		state.User = &u
		state.Authenticated = true
	}
	return state
}
