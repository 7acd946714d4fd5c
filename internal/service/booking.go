package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/lock"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// Nightly rates.
const (
	RateSuite    int64 = 150
	RateStandard int64 = 100
)

// BookingRequest is the input of Bookings.Create.
type BookingRequest struct {
	UserID          model.ID `json:"userId"`
	RoomID          model.ID `json:"roomId"`
	CheckInDate     string   `json:"checkInDate"`
	CheckOutDate    string   `json:"checkOutDate"`
	SpecialRequests string   `json:"specialRequests"`
}

// Bookings creates bookings. The overlap check and the append for a room
// run under that room's lock so two requests cannot both claim a range.
type Bookings struct {
	rooms     *repository.RoomRepo
	bookings  *repository.BookingRepo
	locker    lock.Locker
	publisher queue.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewBookings(rooms *repository.RoomRepo, bookings *repository.BookingRepo, locker lock.Locker,
	publisher queue.Publisher, now func() time.Time, log *zap.Logger) *Bookings {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &Bookings{rooms: rooms, bookings: bookings, locker: locker, publisher: publisher, now: now, log: log}
}

// RoomRate is the nightly price of a room type.
func RoomRate(roomType string) int64 {
	if roomType == model.RoomTypeSuite {
		return RateSuite
	}
	return RateStandard
}

// Create validates req and stores a confirmed booking.
// Checks run in this order: missing fields, unknown room, room not
// available, bad dates, overlap with an active or confirmed booking.
// The booking.confirmed event is sent after the room lock is released.
func (s *Bookings) Create(ctx context.Context, req BookingRequest) (model.Booking, error) {
	if req.UserID == 0 || req.RoomID == 0 ||
		strings.TrimSpace(req.CheckInDate) == "" || strings.TrimSpace(req.CheckOutDate) == "" {
		return model.Booking{}, ErrMissingFields
	}
	b, room, nights, err := s.reserve(ctx, req)
	if err != nil {
		return model.Booking{}, err
	}
	s.publish(ctx, b, room, nights)
	return b, nil
}

// reserve runs the overlap check and the append under the room lock.
func (s *Bookings) reserve(ctx context.Context, req BookingRequest) (model.Booking, model.Room, int64, error) {
	roomID := int64(req.RoomID)

	unlock, err := s.locker.Lock(ctx, lock.RoomKey(roomID))
	if err != nil {
		return model.Booking{}, model.Room{}, 0, fmt.Errorf("lock room %d: %w", roomID, err)
	}
	defer unlock()

	room, err := s.rooms.Get(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Booking{}, model.Room{}, 0, fmt.Errorf("%w: id %d", ErrRoomNotFound, roomID)
	}
	if err != nil {
		return model.Booking{}, model.Room{}, 0, err
	}
	if room.Status != model.RoomAvailable {
		return model.Booking{}, model.Room{}, 0, fmt.Errorf("%w: status is %s", ErrRoomUnavailable, room.Status)
	}

	want, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return model.Booking{}, model.Room{}, 0, err
	}
	existing, err := s.bookings.ListHoldingForRoom(ctx, roomID)
	if err != nil {
		return model.Booking{}, model.Room{}, 0, err
	}
	for _, h := range existing {
		if st, ok := bookingStay(h); ok && st.overlaps(want) {
			return model.Booking{}, model.Room{}, 0, fmt.Errorf("%w: booking %d", ErrBookingConflict, h.ID)
		}
	}

	nights := want.nights()
	price := RoomRate(room.Type) * nights
	b, err := s.bookings.Create(ctx, model.Booking{
		HotelID:         room.HotelID,
		UserID:          req.UserID,
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		Status:          model.BookingConfirmed,
		TotalPrice:      float64(price),
		PaymentStatus:   model.PaymentPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       model.Timestamp(s.now()),
	})
	if err != nil {
		return model.Booking{}, model.Room{}, 0, err
	}
	s.log.Info("booking created",
		zap.Int64("booking_id", int64(b.ID)),
		zap.Int64("room_id", roomID),
		zap.Int64("user_id", int64(b.UserID)),
		zap.Int64("total_price", price),
	)
	return b, room, nights, nil
}

// publish announces the booking; a broker failure never fails the request.
func (s *Bookings) publish(ctx context.Context, b model.Booking, room model.Room, nights int64) {
	ev := queue.BookingConfirmedEvent{
		EventID:      uuid.NewString(),
		BookingID:    int64(b.ID),
		UserID:       int64(b.UserID),
		RoomID:       int64(b.RoomID),
		RoomType:     room.Type,
		CheckInDate:  b.CheckInDate,
		CheckOutDate: b.CheckOutDate,
		Nights:       nights,
		TotalPrice:   RoomRate(room.Type) * nights,
		ConfirmedAt:  b.CreatedAt,
	}
	if b.HotelID != nil {
		h := int64(*b.HotelID)
		ev.HotelID = &h
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		s.log.Warn("publish booking.confirmed failed", zap.Int64("booking_id", ev.BookingID), zap.Error(err))
	}
}
