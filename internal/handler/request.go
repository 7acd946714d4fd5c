package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/service"
)

// RequestHandler drives service and staff requests through their states.
type RequestHandler struct {
	Requests *service.Requests
}

func NewRequestHandler(r *service.Requests) *RequestHandler {
	return &RequestHandler{Requests: r}
}

type completeStaffReq struct {
	Notes string `json:"notes"`
}

type completeServiceReq struct {
	StaffID model.ID `json:"staffId"`
	Notes   string   `json:"notes"`
}

// CreateStaffRequest: POST /staff-requests/:id/create, :id being the
// service request the staff member is assigned to.
func (h *RequestHandler) CreateStaffRequest(c echo.Context) error {
	id, err := pathID(c, service.ErrNotFound)
	if err != nil {
		return err
	}
	var in service.StaffRequestInput
	if err := bind(c, &in); err != nil {
		return err
	}
	sr, err := h.Requests.CreateStaffRequest(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Staff request created and assigned successfully",
		"staffRequest": sr,
	})
}

func (h *RequestHandler) CompleteStaffRequest(c echo.Context) error {
	id, err := pathID(c, service.ErrNotFound)
	if err != nil {
		return err
	}
	var req completeStaffReq
	if err := bind(c, &req); err != nil {
		return err
	}
	sr, err := h.Requests.CompleteStaffRequest(c.Request().Context(), id, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Staff request marked as completed",
		"staffRequest": sr,
	})
}

func (h *RequestHandler) CompleteServiceRequest(c echo.Context) error {
	id, err := pathID(c, service.ErrNotFound)
	if err != nil {
		return err
	}
	var req completeServiceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.Requests.CompleteServiceRequest(c.Request().Context(), id, req.StaffID, req.Notes); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":          true,
		"message":          "Service request marked as completed",
		"notificationSent": true,
	})
}
