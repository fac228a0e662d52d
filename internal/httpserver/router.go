package httpserver

import (
	"errors"
	"net/http"

	"github.com/LithiumKitmap/Site/internal/service/token"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	AdminHandler    *AdminHandler
	DownloadHandler *DownloadHandler
	SearchHandler   *SearchHandler
	TokenService    *token.TokenService

	CORSOrigin string
}

// errorHandler maps everything unhandled to the {error, details} JSON shape,
// with a dedicated body for unmatched routes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && he.Message == "Not Found" {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "Route not found"})
			return
		}
		_ = c.JSON(he.Code, echo.Map{"error": he.Message})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error":   "Something went wrong!",
		"details": err.Error(),
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Logger(), middleware.Secure())
	if d.CORSOrigin != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{d.CORSOrigin},
			AllowCredentials: true,
		}))
	}
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/community/stats", d.ProductHandler.CommunityStats)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/featured", d.ProductHandler.GetFeatured)
	products.GET("/:id", d.ProductHandler.GetProduct)

	authed := v1.Group("", d.TokenService.AutoRefreshMiddleware)
	authed.GET("/me", d.AuthHandler.Me)
	authed.GET("/cart", d.CartHandler.GetCart)
	authed.POST("/cart", d.CartHandler.AddToCart)
	authed.DELETE("/cart", d.CartHandler.ClearCart)
	authed.DELETE("/cart/:id", d.CartHandler.DeleteFromCart)
	authed.POST("/checkout", d.CheckoutHandler.Begin)
	authed.POST("/checkout/confirm", d.CheckoutHandler.Confirm)
	authed.GET("/downloads", d.DownloadHandler.ListDownloads)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.POST("/grants", d.AdminHandler.BulkGrant)
	admin.POST("/reset", d.AdminHandler.ResetPurchases)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
}
