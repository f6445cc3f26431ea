package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/orbitronic/internal/handlers"
	"github.com/Skotchmaster/orbitronic/internal/middleware/auth"
	"github.com/Skotchmaster/orbitronic/internal/middleware/csrf"
	"github.com/Skotchmaster/orbitronic/internal/session"
	"github.com/Skotchmaster/orbitronic/internal/view"
)

type Deps struct {
	Sessions *session.Manager
	Auth     *handlers.AuthHTTP
	Catalog  *handlers.CatalogHTTP
	Admin    *handlers.AdminHTTP
	API      *handlers.APIHTTP
	CSRF     csrf.Config
	// Ready reports whether the store answers. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/static/img/:name", handlers.ProductImage)
	e.StaticFS("/static", view.Static())

	v1 := e.Group("/api/v1")
	v1.GET("/products", d.API.GetProducts)
	v1.GET("/products/:id", d.API.GetProduct)

	site := e.Group("", d.Sessions.Middleware(), csrf.Middleware(d.CSRF))

	site.GET("/", d.Catalog.Home)
	site.GET("/product/:id", d.Catalog.ProductDetail)
	site.GET("/about", d.Catalog.About)
	site.GET("/contact", d.Catalog.Contact)
	site.GET("/search", d.Catalog.Search)

	site.GET("/login", d.Auth.LoginForm)
	site.POST("/login", d.Auth.Login)
	site.GET("/signup", d.Auth.SignupForm)
	site.POST("/signup", d.Auth.Signup)
	site.GET("/logout", d.Auth.Logout)

	// per route, so unknown paths keep their 404 instead of the admin redirect
	adminOnly := auth.AdminOnly(d.Sessions)
	site.GET("/admin", d.Admin.Dashboard, adminOnly)
	site.POST("/add_product", d.Admin.AddProduct, adminOnly)
	site.GET("/edit_product/:id", d.Admin.EditForm, adminOnly)
	site.POST("/edit_product/:id", d.Admin.EditProduct, adminOnly)
	site.POST("/delete_product/:id", d.Admin.DeleteProduct, adminOnly)
}

// Middleware is the stack every request passes through.
func Middleware(e *echo.Echo, logger echo.MiddlewareFunc) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger)
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "same-origin",
	}))
}
