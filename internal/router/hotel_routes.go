package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
)

// RegisterHotel registers the business endpoints. With AuthRequired the
// request lifecycle routes are reserved for staff and admins.
// No group here: one with middleware and an empty prefix would also
// match every unknown path.
func RegisterHotel(e *echo.Echo, d Deps) {
	var staff []echo.MiddlewareFunc
	if d.AuthRequired {
		staff = append(staff, middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	}

	e.GET("/rooms/available", d.Rooms.Available)
	e.POST("/bookings/create", d.Bookings.Create)

	e.POST("/staff-requests/:id/create", d.Requests.CreateStaffRequest, staff...)
	e.PATCH("/staff-requests/:id/complete", d.Requests.CompleteStaffRequest, staff...)
	e.PATCH("/service-requests/:id/complete", d.Requests.CompleteServiceRequest, staff...)

	e.POST("/apply-guest-preferences", d.Preferences.Apply)
}
