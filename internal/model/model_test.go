package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var b struct {
		UserID ID  `json:"userId"`
		RoomID ID  `json:"roomId"`
		Hotel  *ID `json:"hotelId"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"4","roomId":2,"hotelId":null}`), &b))
	assert.Equal(t, ID(4), b.UserID)
	assert.Equal(t, ID(2), b.RoomID)
	assert.Nil(t, b.Hotel)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestRoomKeepsExtraAttributes(t *testing.T) {
	r := Room{ID: 1, Type: "suite", Status: RoomAvailable, Extra: Extra{"number": "101", "status": "stale"}}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"type":"suite","status":"available","currentUserId":null,"number":"101"}`, string(out))
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 0, 0, 123_000_000, time.FixedZone("x", 3600))
	assert.Equal(t, "2024-06-01T09:00:00.123Z", Timestamp(ts))
}

func TestPreferenceSet(t *testing.T) {
	assert.False(t, Set(nil))
	assert.False(t, Set(""))
	assert.False(t, Set(json.Number("0")))
	assert.False(t, Set(false))
	assert.True(t, Set(json.Number("22")))
	assert.True(t, Set("open"))
	assert.True(t, Set(map[string]any{}))
}

func TestBookingHolds(t *testing.T) {
	assert.True(t, Booking{Status: BookingConfirmed}.Holds())
	assert.True(t, Booking{Status: BookingActive}.Holds())
	assert.False(t, Booking{Status: BookingCancelled}.Holds())
}
