package model

// Booking statuses. Only active and confirmed bookings hold a room.
const (
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// PaymentPending is the payment status of a freshly created booking.
const PaymentPending = "pending"

// Booking reserves a room for the half-open date range
// [CheckInDate, CheckOutDate).
type Booking struct {
	ID              ID      `json:"id"`
	HotelID         *ID     `json:"hotelId,omitempty"`
	UserID          ID      `json:"userId"`
	RoomID          ID      `json:"roomId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	Status          string  `json:"status"`
	TotalPrice      float64 `json:"totalPrice"`
	PaymentStatus   string  `json:"paymentStatus"`
	SpecialRequests string  `json:"specialRequests"`
	CreatedAt       string  `json:"createdAt"`
}

// Holds reports whether the booking blocks its room.
func (b Booking) Holds() bool {
	return b.Status == BookingActive || b.Status == BookingConfirmed
}

// Hold is the part of a stored booking the overlap check reads.
type Hold struct {
	ID           ID
	RoomID       ID
	Status       string
	CheckInDate  string
	CheckOutDate string
}
