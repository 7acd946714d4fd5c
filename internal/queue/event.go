// Package queue carries domain events over RabbitMQ: the publisher used by
// the booking service and the consumer that turns events into guest
// notifications.
package queue

// BookingConfirmedQueue is the durable queue booking events are sent to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking has been stored. It
// carries enough for consumers to notify the guest without reading the
// record store.
type BookingConfirmedEvent struct {
	EventID      string `json:"event_id"`
	BookingID    int64  `json:"booking_id"`
	HotelID      *int64 `json:"hotel_id,omitempty"`
	UserID       int64  `json:"user_id"`
	RoomID       int64  `json:"room_id"`
	RoomType     string `json:"room_type"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Nights       int64  `json:"nights"`
	TotalPrice   int64  `json:"total_price"`
	ConfirmedAt  string `json:"confirmed_at"`
}
