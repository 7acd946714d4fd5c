package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/tenant"
)

// Tenant resolves the hotel the request works on. A verified hotel_id claim
// wins; a header naming another hotel is then refused. Without a claim the
// header is taken as sent, and without either the request has no tenant.
func Tenant(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := tenant.Parse(c.Request().Header.Get(tenant.Header))
			t := header
			if claim := tenant.Parse(HotelClaim(c)); !claim.IsZero() {
				if !header.IsZero() && header != claim {
					log.Warn("tenant header does not match token",
						zap.String("header", header.String()),
						zap.String("claim", claim.String()))
					return c.JSON(http.StatusForbidden, echo.Map{
						"error": "hotel does not match the authenticated user",
						"code":  "Forbidden",
					})
				}
				t = claim
			}
			c.Set(ctxTenant, t)
			return next(c)
		}
	}
}
