// Package tenant carries the hotel a request is scoped to. Collections are
// shared between hotels and partitioned by the hotelId field of each record.
package tenant

import "strings"

// Header is the request header naming the hotel a client works on.
const Header = "X-Hotel-Id"

// Field is the record attribute holding the owning hotel.
const Field = "hotelId"

// ID identifies a hotel. The zero value means "no tenant": queries built
// with it see every hotel's records.
type ID string

// scoped lists the collections partitioned by hotel.
var scoped = map[string]bool{
	"users":            true,
	"rooms":            true,
	"bookings":         true,
	"iot-devices":      true,
	"service-requests": true,
	"staff-requests":   true,
	"preferences":      true,
}

// Scoped reports whether reads of the named collection are filtered by tenant.
func Scoped(resource string) bool { return scoped[resource] }

// Parse normalises a raw header or claim value.
func Parse(raw string) ID { return ID(strings.TrimSpace(raw)) }

// IsZero reports whether no tenant is set.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }
