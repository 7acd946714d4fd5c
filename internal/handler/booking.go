package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/service"
)

type BookingHandler struct {
	Bookings *service.Bookings
}

func NewBookingHandler(b *service.Bookings) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// Create books a room for a guest.
func (h *BookingHandler) Create(c echo.Context) error {
	var req service.BookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.Bookings.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Booking created",
		"booking": b,
	})
}
