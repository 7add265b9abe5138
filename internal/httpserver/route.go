package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/logging"
)

type Deps struct {
	Products *ProductHTTP
	Users    *UserHTTP
	// Search is optional; the search route is mounted only when it is set.
	Search *SearchHTTP
	DB     *gorm.DB
}

func Register(e *echo.Echo, d Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/health/ready", d.ready)

	products := e.Group("/api/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/sorted", d.Products.SortedProducts)
	products.GET("/description/:keyword", d.Products.FindByDescription)
	if d.Search != nil {
		products.GET("/search", d.Search.Search)
	}
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct)
	products.PUT("/:id", d.Products.UpdateProduct)
	products.PATCH("/:id/price", d.Products.PatchPrice)
	products.DELETE("/delete", d.Products.DeleteProducts)
	products.DELETE("/:id", d.Products.DeleteProduct)

	products.POST("/:userId/add/:productId", d.Users.LinkProduct)
	products.GET("/:userId/products", d.Users.UserProducts)
	products.DELETE("/:userId/remove/:productId", d.Users.UnlinkProduct)

	users := e.Group("/api/users")
	users.POST("", d.Users.CreateUser)
	users.GET("", d.Users.GetUsers)
	users.GET("/:id", d.Users.GetUser)
	users.DELETE("/:id", d.Users.DeleteUser)
}

func (d Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.String(http.StatusOK, "ready")
}
