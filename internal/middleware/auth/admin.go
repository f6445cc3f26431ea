package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/session"
)

const (
	MsgAdminPage   = "You must be an admin to access this page"
	MsgAdminAction = "You must be an admin to perform this action"

	ctxIdentity = "identity"
)

// RequireAdmin succeeds only for an authenticated session with the admin role.
func RequireAdmin(id session.Identity) error {
	if !id.IsAdmin() {
		return service.ErrForbidden
	}
	return nil
}

// AdminOnly turns non-admin visitors back to the login page before the
// handler runs.
func AdminOnly(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := m.Identity(c)
			if err := RequireAdmin(id); err != nil {
				l := logging.FromContext(c.Request().Context())
				l.Warn("admin_only_denied", "status", 303, "username", id.Username, "role", id.Role)

				msg := MsgAdminAction
				if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
					msg = MsgAdminPage
				}
				m.AddFlash(c, session.FlashError, msg)
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			c.Set(ctxIdentity, id)
			return next(c)
		}
	}
}

// CurrentAdmin returns the identity AdminOnly admitted.
func CurrentAdmin(c echo.Context) (session.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(session.Identity)
	return id, ok
}
