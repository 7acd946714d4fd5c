package middleware

// Context keys shared by the middleware and the handlers. JWTAuth fills the
// identity keys, Tenant fills the tenant key.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/tenant"
)

const (
	ctxUserID  = "user_id"
	ctxRole    = "role"
	ctxHotelID = "hotel_id"
	ctxTenant  = "tenant"
)

// UserID returns the authenticated user, if any.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxUserID).(int64)
	return id, ok
}

// Role returns the role claim of the authenticated user or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// HotelClaim returns the hotel_id claim of the authenticated user or "".
func HotelClaim(c echo.Context) string {
	h, _ := c.Get(ctxHotelID).(string)
	return h
}

// TenantFrom returns the tenant resolved by the Tenant middleware.
func TenantFrom(c echo.Context) tenant.ID {
	t, _ := c.Get(ctxTenant).(tenant.ID)
	return t
}

// userKey identifies the caller in cache and rate limit keys.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
