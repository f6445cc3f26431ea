// Package session keeps the browser identity and one-shot notices in a signed
// cookie.
package session

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/models"
)

const (
	CookieName     = "orbitronic-session"
	DefaultTimeout = 30 * time.Minute

	ctxKey      = "orbitronic.session"
	keyUsername = "username"
	keyRole     = "role"
	keySeen     = "seen"
	keyDraft    = "draft"

	// MaxDraftBytes bounds a stored draft so the cookie stays under the
	// browser limit.
	MaxDraftBytes = 2048
)

type Identity = models.Identity

type Flash struct {
	Kind    string
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Draft holds form input across a redirect, keyed by what it belongs to.
type Draft struct {
	Key    string
	Fields map[string]string
}

func init() {
	gob.Register(Flash{})
	gob.Register(Draft{})
}

type Manager struct {
	Store   sessions.Store
	Timeout time.Duration
	Now     func() time.Time
}

func NewManager(secret []byte, timeout time.Duration, secure bool) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	store := sessions.NewCookieStore(secret)
	store.MaxAge(int(timeout / time.Second))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{Store: store, Timeout: timeout, Now: time.Now}
}

// Middleware loads the session before the handler and saves it once, right
// before the response header goes out.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.load(c)
			return next(c)
		}
	}
}

func (m *Manager) load(c echo.Context) *sessions.Session {
	if s, ok := c.Get(ctxKey).(*sessions.Session); ok {
		return s
	}

	l := logging.FromContext(c.Request().Context())
	s, err := m.Store.Get(c.Request(), CookieName)
	if err != nil {
		// a cookie signed with another key decodes to a fresh session
		l.Warn("session_decode_failed", "error", err)
	}

	now := m.now()
	if _, ok := s.Values[keyUsername].(string); ok {
		seen, _ := s.Values[keySeen].(int64)
		if now.Sub(time.Unix(seen, 0)) > m.Timeout {
			l.Info("session_expired", "username", s.Values[keyUsername])
			clearIdentity(s)
		} else {
			s.Values[keySeen] = now.Unix()
		}
	}

	c.Set(ctxKey, s)
	c.Response().Before(func() {
		if s.IsNew && len(s.Values) == 0 {
			return
		}
		if err := s.Save(c.Request(), c.Response()); err != nil {
			l.Error("session_save_failed", "error", err)
		}
	})
	return s
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) Identity(c echo.Context) Identity {
	s := m.load(c)
	username, _ := s.Values[keyUsername].(string)
	role, _ := s.Values[keyRole].(string)
	if username == "" {
		return Identity{}
	}
	return Identity{Username: username, Role: role}
}

// Establish binds the session to id and starts its inactivity clock.
func (m *Manager) Establish(c echo.Context, id Identity) {
	s := m.load(c)
	s.Values[keyUsername] = id.Username
	s.Values[keyRole] = id.Role
	s.Values[keySeen] = m.now().Unix()
}

// Clear drops the identity. Pending flashes survive so a logout notice can
// still be shown.
func (m *Manager) Clear(c echo.Context) {
	clearIdentity(m.load(c))
}

func clearIdentity(s *sessions.Session) {
	delete(s.Values, keyUsername)
	delete(s.Values, keyRole)
	delete(s.Values, keySeen)
}

func (m *Manager) AddFlash(c echo.Context, kind, message string) {
	m.load(c).AddFlash(Flash{Kind: kind, Message: message})
}

// Flashes returns and consumes the pending notices.
func (m *Manager) Flashes(c echo.Context) []Flash {
	var out []Flash
	for _, f := range m.load(c).Flashes() {
		if fm, ok := f.(Flash); ok {
			out = append(out, fm)
		}
	}
	return out
}

// SaveDraft keeps fields for the next TakeDraft with the same key. It stores
// nothing and reports false when the fields exceed MaxDraftBytes.
func (m *Manager) SaveDraft(c echo.Context, key string, fields map[string]string) bool {
	n := len(key)
	for k, v := range fields {
		n += len(k) + len(v)
	}
	s := m.load(c)
	if n > MaxDraftBytes {
		delete(s.Values, keyDraft)
		return false
	}
	s.Values[keyDraft] = Draft{Key: key, Fields: fields}
	return true
}

// TakeDraft returns and drops the draft saved for key. A draft saved for
// another key is dropped as well.
func (m *Manager) TakeDraft(c echo.Context, key string) (map[string]string, bool) {
	s := m.load(c)
	d, ok := s.Values[keyDraft].(Draft)
	if !ok {
		return nil, false
	}
	delete(s.Values, keyDraft)
	if d.Key != key {
		return nil, false
	}
	return d.Fields, true
}
