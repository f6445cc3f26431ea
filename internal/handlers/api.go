package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/util"
)

// APIHTTP is the read-only JSON view of the catalog.
type APIHTTP struct {
	Svc *service.CatalogService
}

func (h *APIHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.ListProducts(ctx, c.QueryParam("category"), page, size)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products").SetInternal(err)
	}

	l.Info("get_products_success", "total", res.Meta.Total)
	return c.JSON(http.StatusOK, res)
}

func (h *APIHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.get_product")

	p, err := h.Svc.Product(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product with this id does not exist")
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product").SetInternal(err)
	}
	return c.JSON(http.StatusOK, p)
}
