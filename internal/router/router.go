package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/book-api/internal/config"
	"github.com/iliyamo/book-api/internal/handler"
	"github.com/iliyamo/book-api/internal/middleware"
	"github.com/iliyamo/book-api/internal/utils"
)

// Deps are the handlers and shared settings the routes are built from.
// Redis may be nil, in which case response caching is off.
type Deps struct {
	Auth       *handler.AuthHandler
	Books      *handler.BookHandler
	Categories *handler.CategoryHandler
	JWT        utils.JWTSettings
	Cache      config.CacheConfig
	Redis      *redis.Client
	Log        *zap.Logger
}

// RegisterRoutes registers every route of the API on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/error", handler.AlwaysFail)

	RegisterAuth(e, d.Auth)
	RegisterBooks(e, d)
	RegisterCategories(e, d)
}

// RegisterAuth registers the token endpoints. None of them require an
// existing session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api")
	g.POST("/registeruser", a.RegisterUser)
	g.POST("/registeradmin", a.RegisterAdmin)
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.Refresh)
}

// cached returns the read-side cache middleware for d.
func (d Deps) cached() echo.MiddlewareFunc {
	return middleware.NewRedisCache(d.Cache, d.Redis)
}

// purging returns the middleware that drops cached reads after a write.
func (d Deps) purging() echo.MiddlewareFunc {
	return middleware.InvalidateCache(d.Cache, d.Redis, d.Log)
}
