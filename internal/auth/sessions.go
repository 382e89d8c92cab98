package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/library"
)

// Session data keys
const (
	SessionKeyEmail   = "account_email"
	SessionKeyIsAdmin = "is_admin"
	SessionKeyLoginAt = "login_at"
	SessionKeyFlash   = "flash"
)

func init() {
	gob.Register(time.Time{})
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "library_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession binds the identity to the request's session after a
// successful login. The token is renewed to prevent session fixation.
func (sm *SessionManager) CreateSession(r *http.Request, identity library.Identity) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyEmail, identity.Email)
	sm.Put(r.Context(), SessionKeyIsAdmin, identity.IsAdmin)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now().UTC())

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// SessionEmail returns the account email stored in the session, or "".
func (sm *SessionManager) SessionEmail(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyEmail)
}

// LoginAt returns when the session was created by a login.
func (sm *SessionManager) LoginAt(r *http.Request) time.Time {
	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)
	return loginAt
}

// PutFlash stores a one-shot message shown by the next session read.
func (sm *SessionManager) PutFlash(r *http.Request, message string) {
	if message == "" {
		return
	}
	sm.Put(r.Context(), SessionKeyFlash, message)
}

// PopFlash returns and clears the pending flash message.
func (sm *SessionManager) PopFlash(r *http.Request) string {
	return sm.PopString(r.Context(), SessionKeyFlash)
}
