package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/session"
	"github.com/Skotchmaster/orbitronic/internal/util"
)

type CatalogHTTP struct {
	*Pages
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	groups, err := h.Svc.Catalog(c.Request().Context())
	if err != nil {
		return err
	}
	return h.ok(c, "index", "Home", groups)
}

func (h *CatalogHTTP) ProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product_detail")

	p, err := h.Svc.Product(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_detail_error", "status", 404, "id", c.Param("id"))
			return echo.ErrNotFound
		}
		return err
	}
	return h.ok(c, "product_detail", p.Name, p)
}

func (h *CatalogHTTP) About(c echo.Context) error {
	return h.ok(c, "about", "About", nil)
}

func (h *CatalogHTTP) Contact(c echo.Context) error {
	return h.ok(c, "contact", "Contact", nil)
}

type searchData struct {
	Query   string
	Results *service.ProductPage
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	q := c.QueryParam("q")
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, q, page, size)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return h.flashRedirect(c, session.FlashError, MsgSearchRequired, "/")
		}
		return err
	}
	return h.render(c, http.StatusOK, "search", "Search", searchData{Query: q, Results: res})
}
