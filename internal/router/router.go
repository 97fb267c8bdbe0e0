package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/cinehub/cinehub/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The health endpoint is used by load balancers and monitoring systems
	// to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the unauthenticated catalog browsing routes.
// These proxy the external movie database; cache is the Redis response
// cache middleware, which may be a pass-through when Redis is down.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/catalog", cache)
	g.GET("/trending", h.Trending)
	g.GET("/discover", h.Discover)
	g.GET("/search", h.Search)
	g.GET("/:type/:id", h.Details)
}
