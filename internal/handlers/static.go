package handlers

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/view"
)

const placeholderImage = "img/placeholder.svg"

// ProductImage serves /static/img/:name. Products store only an image file
// name, so names with no shipped file get the placeholder instead of a 404.
func ProductImage(c echo.Context) error {
	static := view.Static()
	name := "img/" + c.Param("name")
	if !fs.ValidPath(name) {
		return echo.ErrNotFound
	}
	if fi, err := fs.Stat(static, name); err != nil || fi.IsDir() {
		name = placeholderImage
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	if err := c.FileFS(name, static); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot serve image").SetInternal(err)
	}
	return nil
}
