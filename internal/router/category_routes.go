package router

import "github.com/labstack/echo/v4"

// RegisterCategories registers the public category endpoints.
func RegisterCategories(e *echo.Echo, d Deps) {
	g := e.Group("/api/categories")
	g.GET("", d.Categories.List, d.cached())
	g.GET("/search", d.Categories.Search, d.cached())
	g.GET("/:id", d.Categories.Get, d.cached())

	g.POST("", d.Categories.Create, d.purging())
	g.PUT("/:id", d.Categories.Update, d.purging())
	g.DELETE("/:id", d.Categories.Delete, d.purging())
}
