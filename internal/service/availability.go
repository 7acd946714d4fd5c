package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/tenant"
)

// Availability answers which rooms are free for a date range.
type Availability struct {
	rooms    *repository.RoomRepo
	bookings *repository.BookingRepo
	log      *zap.Logger
}

func NewAvailability(rooms *repository.RoomRepo, bookings *repository.BookingRepo, log *zap.Logger) *Availability {
	return &Availability{rooms: rooms, bookings: bookings, log: log}
}

// AvailableRooms returns the rooms of hotel t (every hotel when t is zero)
// whose status is available and that have no active or confirmed booking
// overlapping [checkIn, checkOut).
func (a *Availability) AvailableRooms(ctx context.Context, t tenant.ID, checkIn, checkOut string) ([]model.Room, error) {
	if strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return nil, ErrMissingParameter
	}
	want, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	// room ids are unique across hotels, so bookings need no tenant filter;
	// older bookings carry no hotelId at all
	holding, err := a.bookings.ListHolding(ctx)
	if err != nil {
		return nil, err
	}
	booked := make(map[model.ID]bool)
	for _, b := range holding {
		if s, ok := bookingStay(b); ok && s.overlaps(want) {
			booked[b.RoomID] = true
		}
	}

	rooms, err := a.rooms.ListAvailable(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if !booked[r.ID] {
			out = append(out, r)
		}
	}
	a.log.Debug("availability computed",
		zap.String("tenant", t.String()),
		zap.Int("free", len(out)),
		zap.Int("booked", len(booked)),
	)
	return out, nil
}
