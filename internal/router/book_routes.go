package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/middleware"
	"github.com/iliyamo/book-api/internal/model"
)

// RegisterBooks registers the book endpoints under /api/books. Listing
// needs any valid token, reads by id or title need the Admin or User role
// and writes need Admin. The cache sits behind the auth checks.
func RegisterBooks(e *echo.Echo, d Deps) {
	g := e.Group("/api/books", middleware.JWTAuth(d.JWT))

	g.GET("", d.Books.List, d.cached())

	readers := middleware.RequireRole(model.RoleAdmin, model.RoleUser)
	g.GET("/search", d.Books.Search, readers, d.cached())
	g.GET("/:id", d.Books.Get, readers, d.cached())

	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("", d.Books.Create, admin, d.purging())
	g.PUT("/:id", d.Books.Update, admin, d.purging())
	g.DELETE("/:id", d.Books.Delete, admin, d.purging())
}
