// Package lock serialises work on a shared key, such as the check-then-write
// sequence of a booking on one room.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when a lock could not be acquired in time.
var ErrTimeout = errors.New("lock: acquire timeout")

// Unlock releases a held lock. Calling it more than once is harmless.
type Unlock func()

// Locker hands out exclusive locks per key.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// RoomKey is the lock key guarding bookings of one room.
func RoomKey(roomID int64) string { return "room:" + itoa(roomID) }

// RequestKey is the lock key guarding the lifecycle of one request record.
func RequestKey(collection string, id int64) string { return collection + ":" + itoa(id) }
