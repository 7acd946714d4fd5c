// Package model holds the hotel entities as the services see them. The
// store keeps schema-less records; these structs are decoded views of them.
package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/iliyamo/hotel-management/internal/store"
)

// Collection names as they appear in the data file.
const (
	CollUsers           = "users"
	CollRooms           = "rooms"
	CollBookings        = "bookings"
	CollDevices         = "iot-devices"
	CollServiceRequests = "service-requests"
	CollStaffRequests   = "staff-requests"
	CollNotifications   = "notifications"
	CollPreferences     = "preferences"
	CollHotels          = "hotels"
)

// TimeLayout is the ISO 8601 form used for every stored timestamp.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t in UTC with millisecond precision.
func Timestamp(t time.Time) string { return t.UTC().Format(TimeLayout) }

// ID is a record identifier. Clients and older data send ids both as
// numbers and as numeric strings; both decode to the same value.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	n, ok := store.ToInt64(raw)
	if !ok {
		return &json.UnmarshalTypeError{Value: string(b), Type: idType}
	}
	*id = ID(n)
	return nil
}

var idType = reflect.TypeOf(ID(0))

// Ptr returns a pointer to a copy of id.
func (id ID) Ptr() *ID { return &id }

// Extra carries the attributes of a record that have no struct field, so
// they survive being decoded and encoded again.
type Extra map[string]any

// Extensible is implemented by models that keep their unknown attributes.
type Extensible interface {
	SetExtra(Extra)
}

// marshalWithExtra encodes v and lays its fields over extra.
func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return base, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(known)+len(extra))
	for k, val := range extra {
		out[k] = val
	}
	for k, val := range known {
		out[k] = val
	}
	return json.Marshal(out)
}
