package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/service"
)

type PreferenceHandler struct {
	Preferences *service.Preferences
}

func NewPreferenceHandler(p *service.Preferences) *PreferenceHandler {
	return &PreferenceHandler{Preferences: p}
}

type applyPreferencesReq struct {
	GuestID model.ID `json:"guestId"`
	RoomID  model.ID `json:"roomId"`
}

// Apply sets the room's devices to the guest's preferences and marks the
// room occupied.
func (h *PreferenceHandler) Apply(c echo.Context) error {
	var req applyPreferencesReq
	if err := bind(c, &req); err != nil {
		return err
	}
	devices, err := h.Preferences.Apply(c.Request().Context(), req.GuestID, req.RoomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Preferences applied",
		"devices": devices,
	})
}
