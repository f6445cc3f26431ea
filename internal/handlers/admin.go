package handlers

import (
	"errors"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/session"
)

// AdminHTTP serves the management pages. It sits behind auth.AdminOnly.
type AdminHTTP struct {
	*Pages
	Svc *service.CatalogService
}

type adminData struct {
	Groups []service.CategoryGroup
	Form   service.ProductForm
}

type editData struct {
	ID   string
	Form service.ProductForm
}

func bindProductForm(c echo.Context) service.ProductForm {
	return service.ProductForm{
		Category:    c.FormValue("category"),
		ID:          c.FormValue("id"),
		Name:        c.FormValue("name"),
		Price:       c.FormValue("price"),
		Description: c.FormValue("description"),
		Image:       c.FormValue("image"),
		Details:     c.FormValue("details"),
	}
}

func draftFields(f service.ProductForm) map[string]string {
	return map[string]string{
		"category":    f.Category,
		"name":        f.Name,
		"price":       f.Price,
		"description": f.Description,
		"image":       f.Image,
		"details":     f.Details,
	}
}

func formFromDraft(id string, m map[string]string) service.ProductForm {
	return service.ProductForm{
		Category:    m["category"],
		ID:          id,
		Name:        m["name"],
		Price:       m["price"],
		Description: m["description"],
		Image:       m["image"],
		Details:     m["details"],
	}
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	groups, err := h.Svc.Catalog(c.Request().Context())
	if err != nil {
		return err
	}
	return h.ok(c, "admin", "Admin", adminData{Groups: groups})
}

func (h *AdminHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.add_product")

	if _, err := h.Svc.Create(ctx, bindProductForm(c)); err != nil {
		return h.fail(c, l, "add_product_error", err, "/admin")
	}
	return h.flashRedirect(c, session.FlashSuccess, MsgProductAdded, "/admin")
}

func (h *AdminHTTP) EditForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	p, err := h.Svc.Product(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logging.FromContext(ctx).Warn("edit_product_error", "status", 404, "id", id)
			return echo.ErrNotFound
		}
		return err
	}
	form := service.FormFromProduct(*p)
	if fields, ok := h.Sessions.TakeDraft(c, p.ID); ok {
		form = formFromDraft(p.ID, fields)
	}
	return h.ok(c, "edit_product", "Edit "+p.ID, editData{ID: p.ID, Form: form})
}

func (h *AdminHTTP) EditProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "admin.edit_product", "id", id)

	form := bindProductForm(c)
	if _, err := h.Svc.Update(ctx, id, form); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.fail(c, l, "edit_product_error", err, "/admin")
		}
		if !h.Sessions.SaveDraft(c, id, draftFields(form)) {
			l.Info("edit draft dropped", "reason", "too large")
		}
		return h.fail(c, l, "edit_product_error", err, "/edit_product/"+url.PathEscape(id))
	}
	return h.flashRedirect(c, session.FlashSuccess, MsgProductUpdated, "/admin")
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "admin.delete_product", "id", id)

	if err := h.Svc.Delete(ctx, id); err != nil {
		return h.fail(c, l, "delete_product_error", err, "/admin")
	}
	return h.flashRedirect(c, session.FlashSuccess, MsgProductDeleted, "/admin")
}
