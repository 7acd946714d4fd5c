package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/handler"
)

// RegisterCollections exposes CRUD for every stored collection. Static
// routes registered elsewhere take precedence over these patterns.
func RegisterCollections(e *echo.Echo, h *handler.CollectionHandler) {
	e.GET("/:collection", h.List)
	e.POST("/:collection", h.Create)
	e.GET("/:collection/:id", h.Get)
	e.PUT("/:collection/:id", h.Replace)
	e.PATCH("/:collection/:id", h.Patch)
	e.DELETE("/:collection/:id", h.Delete)
}
