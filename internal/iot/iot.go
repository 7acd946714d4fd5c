// Package iot pushes device state to the controllers installed in rooms.
package iot

import (
	"context"
	"strconv"

	"github.com/iliyamo/hotel-management/internal/model"
)

// Commander delivers the desired state of a device.
type Commander interface {
	PushState(ctx context.Context, d model.IotDevice) error
}

// Nop accepts every command and does nothing.
type Nop struct{}

func (Nop) PushState(context.Context, model.IotDevice) error { return nil }

// StateTopic is the topic a device's controller listens on:
// <prefix>/<hotelId>/rooms/<roomId>/devices/<deviceId>/state. Devices of
// single-hotel data use "_" for the hotel segment.
func StateTopic(prefix string, d model.IotDevice) string {
	hotel := "_"
	if d.HotelID != nil {
		hotel = strconv.FormatInt(int64(*d.HotelID), 10)
	}
	return prefix + "/" + hotel +
		"/rooms/" + strconv.FormatInt(int64(d.RoomID), 10) +
		"/devices/" + strconv.FormatInt(int64(d.ID), 10) + "/state"
}
