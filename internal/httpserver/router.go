package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelkov/eshop-api/internal/middleware/auth"
)

type Deps struct {
	CategoryHandler *CategoryHTTP
	ProductHandler  *ProductHTTP
	UserHandler     *UserHTTP
	OrderHandler    *OrderHTTP

	AuthMW *auth.Middleware

	APIPrefix string
	UploadDir string
}

// Register wires every route with its own authorization requirement; there
// is no ambient auth middleware.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/public/uploads", d.UploadDir)

	api := e.Group(d.APIPrefix)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.ListCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, d.AuthMW.RequireAdmin)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory, d.AuthMW.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, d.AuthMW.RequireAdmin)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/productsAdmin", d.ProductHandler.ListProductsAdmin, d.AuthMW.RequireAdmin)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/get/featured/:count", d.ProductHandler.GetFeaturedProducts)
	products.GET("/get/count", d.ProductHandler.GetProductCount)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.AuthMW.RequireAdmin)
	products.PUT("/gallery-images/:id", d.ProductHandler.UpdateGallery, d.AuthMW.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.AuthMW.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.AuthMW.RequireAdmin)

	users := api.Group("/users")
	users.POST("/register", d.UserHandler.Register)
	users.POST("/login", d.UserHandler.Login)
	users.GET("", d.UserHandler.ListUsers, d.AuthMW.RequireAdmin)
	users.GET("/get/count", d.UserHandler.GetUserCount, d.AuthMW.RequireAdmin)
	users.GET("/:id", d.UserHandler.GetUser, d.AuthMW.RequireAuth)
	users.PUT("/:id", d.UserHandler.UpdateUser, d.AuthMW.RequireAuth)
	users.DELETE("/:id", d.UserHandler.DeleteUser, d.AuthMW.RequireAdmin)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders, d.AuthMW.RequireAdmin)
	orders.GET("/get/totalsales", d.OrderHandler.GetTotalSales, d.AuthMW.RequireAdmin)
	orders.GET("/get/count", d.OrderHandler.GetOrderCount, d.AuthMW.RequireAdmin)
	orders.GET("/get/userOrders/:userid", d.OrderHandler.GetUserOrders, d.AuthMW.RequireAuth)
	orders.GET("/:id", d.OrderHandler.GetOrder, d.AuthMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder, d.AuthMW.RequireAuth)
	orders.POST("/create-checkout-session", d.OrderHandler.CreateCheckoutSession, d.AuthMW.RequireAuth)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, d.AuthMW.RequireAdmin)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, d.AuthMW.RequireAdmin)
}
