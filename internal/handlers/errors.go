package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
)

// ErrorHandler renders the error pages. Paths under /api/ get JSON instead.
// Internal detail is logged and never written to the response.
func ErrorHandler(p *Pages) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		l := logging.FromContext(c.Request().Context())

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok && code < 500 {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}
		if code >= 500 {
			l.Error("unhandled_error", "status", code, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			if werr := c.JSON(code, map[string]string{"error": msg}); werr != nil {
				l.Error("error_response_failed", "error", werr)
			}
			return
		}

		name := "500"
		switch code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			name = "404"
		case http.StatusForbidden:
			name = "403"
		}
		if werr := p.render(c, code, name, http.StatusText(code), nil); werr != nil {
			l.Error("error_page_failed", "page", name, "error", werr)
			_ = c.String(code, http.StatusText(code))
		}
	}
}
