package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/middleware/csrf"
	"github.com/Skotchmaster/orbitronic/internal/session"
	"github.com/Skotchmaster/orbitronic/internal/view"
)

// Pages builds the data every template shares and renders it.
type Pages struct {
	Sessions *session.Manager
}

func (p *Pages) page(c echo.Context, title string, data any) view.Page {
	return view.Page{
		Title:     title,
		Identity:  p.Sessions.Identity(c),
		Flashes:   p.Sessions.Flashes(c),
		CSRFToken: csrf.Token(c),
		Data:      data,
	}
}

func (p *Pages) render(c echo.Context, status int, name, title string, data any) error {
	return c.Render(status, name, p.page(c, title, data))
}

func (p *Pages) ok(c echo.Context, name, title string, data any) error {
	return p.render(c, http.StatusOK, name, title, data)
}

func (p *Pages) flashRedirect(c echo.Context, kind, msg, to string) error {
	p.Sessions.AddFlash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

// fail turns a failed form submission into a flash and a redirect to to.
// Unexpected failures get the generic notice; their detail only reaches the log.
func (p *Pages) fail(c echo.Context, l *slog.Logger, event string, err error, to string) error {
	msg, ok := message(err)
	if ok {
		l.Warn(event, "status", http.StatusSeeOther, "reason", msg)
	} else {
		l.Error(event, "status", http.StatusInternalServerError, "reason", "unexpected", "error", err)
	}
	return p.flashRedirect(c, session.FlashError, msg, to)
}
