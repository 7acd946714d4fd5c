package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/service"
)

type RoomHandler struct {
	Availability *service.Availability
}

func NewRoomHandler(a *service.Availability) *RoomHandler {
	return &RoomHandler{Availability: a}
}

// Available lists the rooms free for ?checkIn&checkOut as a bare array.
func (h *RoomHandler) Available(c echo.Context) error {
	rooms, err := h.Availability.AvailableRooms(c.Request().Context(), middleware.TenantFrom(c),
		c.QueryParam("checkIn"), c.QueryParam("checkOut"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}
