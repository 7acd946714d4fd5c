package repository

import (
	"context"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

// BookingRepo reads and appends bookings.
type BookingRepo struct{ c collection[model.Booking] }

func NewBookingRepo(st store.Store) *BookingRepo {
	return &BookingRepo{c: collection[model.Booking]{st: st, name: model.CollBookings}}
}

func holding(rec store.Record) bool {
	s := rec.String("status")
	return s == model.BookingActive || s == model.BookingConfirmed
}

// ListHolding returns every active or confirmed booking.
func (r *BookingRepo) ListHolding(ctx context.Context) ([]model.Hold, error) {
	return r.holds(ctx, store.Query{Match: holding})
}

// ListHoldingForRoom returns the active or confirmed bookings of one room.
func (r *BookingRepo) ListHoldingForRoom(ctx context.Context, roomID int64) ([]model.Hold, error) {
	q := store.By("roomId", roomID)
	q.Match = holding
	return r.holds(ctx, q)
}

// holds reads the overlap attributes straight from the records, so a
// booking whose other fields do not decode still blocks its room.
// Records without an integer roomId cannot block any room and are left out.
func (r *BookingRepo) holds(ctx context.Context, q store.Query) ([]model.Hold, error) {
	recs, err := r.c.st.Filter(ctx, r.c.name, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Hold, 0, len(recs))
	for _, rec := range recs {
		room, ok := rec.Int64("roomId")
		if !ok {
			continue
		}
		id, _ := rec.ID()
		out = append(out, model.Hold{
			ID:           model.ID(id),
			RoomID:       model.ID(room),
			Status:       rec.String("status"),
			CheckInDate:  rec.String("checkInDate"),
			CheckOutDate: rec.String("checkOutDate"),
		})
	}
	return out, nil
}

// Create appends b and returns it with its assigned id.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (model.Booking, error) {
	return r.c.create(ctx, b)
}
