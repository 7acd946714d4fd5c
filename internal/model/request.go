package model

// Service request statuses.
const (
	ServicePending    = "pending"
	ServiceInProgress = "in-progress"
	ServiceCompleted  = "completed"
)

// Staff request statuses.
const (
	StaffAssigned  = "assigned"
	StaffCompleted = "completed"
)

// ServiceRequest is a task raised by a guest, e.g. housekeeping.
type ServiceRequest struct {
	ID              ID      `json:"id"`
	HotelID         *ID     `json:"hotelId,omitempty"`
	UserID          ID      `json:"userId"`
	RoomID          *ID     `json:"roomId,omitempty"`
	RequestType     string  `json:"requestType"`
	Description     string  `json:"description,omitempty"`
	Status          string  `json:"status"`
	AssignedStaffID *ID     `json:"assignedStaffId"`
	CompletedAt     *string `json:"completedAt,omitempty"`
	CompletionNotes string  `json:"completionNotes,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
}

// StaffRequest is the staff-side work item opened to fulfil a service
// request.
type StaffRequest struct {
	ID               ID      `json:"id"`
	HotelID          *ID     `json:"hotelId,omitempty"`
	ServiceRequestID ID      `json:"serviceRequestId"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	CreatedAt        string  `json:"createdAt"`
	HandledByStaffID ID      `json:"handledByStaffId"`
	AssignedAt       string  `json:"assignedAt"`
	CompletedAt      *string `json:"completedAt"`
	Notes            string  `json:"notes"`
}

// Notification is a message addressed to one user.
type Notification struct {
	ID          ID     `json:"id"`
	HotelID     *ID    `json:"hotelId,omitempty"`
	RecipientID ID     `json:"recipientId"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

// NotificationUnread is the status of a notification nobody has read.
const NotificationUnread = "unread"
