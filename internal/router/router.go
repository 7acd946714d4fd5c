// Package router assembles the echo server: global middleware, the error
// boundary and every route.
package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/tenant"
)

// Deps is everything New needs. Redis may be nil, in which case caching
// and rate limiting are off.
type Deps struct {
	Log          *zap.Logger
	JWTSecret    string
	AuthRequired bool
	Redis        *redis.Client
	Cache        config.CacheConfig
	RateLimit    config.RateLimitConfig

	Auth        *handler.AuthHandler
	Rooms       *handler.RoomHandler
	Bookings    *handler.BookingHandler
	Requests    *handler.RequestHandler
	Preferences *handler.PreferenceHandler
	Collections *handler.CollectionHandler
}

// New builds the echo instance with all middleware and routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	// /api/v1/rooms is served as /rooms
	e.Pre(echomw.Rewrite(map[string]string{"/api/v1/*": "/$1"}))

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, tenant.Header},
	}))
	e.Use(middleware.JWTAuth(d.JWTSecret))
	e.Use(middleware.Tenant(d.Log))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
	e.Use(middleware.NewRedisCache(d.Cache, d.Redis, d.Log))

	RegisterRoutes(e)
	RegisterAuth(e, d.Auth)
	RegisterHotel(e, d)
	RegisterCollections(e, d.Collections)
	return e
}

// RegisterRoutes registers routes that never need authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login and the current-user endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/login", a.Login)
	e.GET("/me", a.Me, middleware.RequireAuth())
}
