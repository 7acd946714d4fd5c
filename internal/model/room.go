package model

// Room statuses.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
)

// RoomTypeSuite is billed at the suite rate; every other type at the
// standard rate.
const RoomTypeSuite = "suite"

// Room is a bookable unit of a hotel.
//
// Fields:
//
//	ID            – record id.
//	HotelID       – owning hotel (nil in single-hotel data).
//	Type          – room category, e.g. standard or suite.
//	Status        – available, occupied or maintenance.
//	CurrentUserID – guest occupying the room, if any.
type Room struct {
	ID            ID     `json:"id"`
	HotelID       *ID    `json:"hotelId,omitempty"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	CurrentUserID *ID    `json:"currentUserId"`
	Extra         Extra  `json:"-"`
}

func (r *Room) SetExtra(e Extra) { r.Extra = e }

func (r Room) MarshalJSON() ([]byte, error) {
	type plain Room
	return marshalWithExtra(plain(r), r.Extra)
}
