package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/session"
)

type AuthHTTP struct {
	*Pages
	Svc *service.AuthService
}

type credentialsData struct {
	Username string
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	return h.ok(c, "login", "Login", credentialsData{})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	username := c.FormValue("username")
	id, err := h.Svc.Login(ctx, username, c.FormValue("password"))
	if err != nil {
		return h.fail(c, l, "login_error", err, "/login")
	}

	h.Sessions.Establish(c, *id)
	return h.flashRedirect(c, session.FlashSuccess, MsgLoginOK, "/")
}

func (h *AuthHTTP) SignupForm(c echo.Context) error {
	return h.ok(c, "signup", "Sign up", credentialsData{})
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	err := h.Svc.Signup(ctx, c.FormValue("username"), c.FormValue("password"), c.FormValue("confirm_password"))
	if err != nil {
		return h.fail(c, l, "signup_error", err, "/signup")
	}

	return h.flashRedirect(c, session.FlashSuccess, MsgSignupOK, "/login")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	h.Sessions.Clear(c)
	h.Sessions.AddFlash(c, session.FlashSuccess, MsgLoggedOut)
	return c.Redirect(http.StatusSeeOther, "/")
}
