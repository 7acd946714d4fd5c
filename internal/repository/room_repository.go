package repository

import (
	"context"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
	"github.com/iliyamo/hotel-management/internal/tenant"
)

// RoomRepo reads and updates rooms.
type RoomRepo struct{ c collection[model.Room] }

func NewRoomRepo(st store.Store) *RoomRepo {
	return &RoomRepo{c: collection[model.Room]{st: st, name: model.CollRooms}}
}

// Get returns the room or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, id int64) (model.Room, error) {
	return r.c.get(ctx, id)
}

// ListAvailable returns rooms whose status is available, limited to the
// hotel t unless t is zero.
func (r *RoomRepo) ListAvailable(ctx context.Context, t tenant.ID) ([]model.Room, error) {
	return r.c.list(ctx, store.By("status", model.RoomAvailable).Scoped(t))
}

// MarkOccupied flags the room as occupied by guestID.
func (r *RoomRepo) MarkOccupied(ctx context.Context, id, guestID int64) (model.Room, error) {
	return r.c.update(ctx, id, store.Record{
		"status":        model.RoomOccupied,
		"currentUserId": guestID,
	})
}
