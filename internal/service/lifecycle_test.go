package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

func requestSeed() map[string][]store.Record {
	return map[string][]store.Record{
		model.CollServiceRequests: {
			{"id": 10, "hotelId": 1, "userId": 4, "requestType": "housekeeping", "status": "pending", "assignedStaffId": nil},
			{"id": 11, "userId": 5, "requestType": "room-service", "status": "completed"},
		},
		model.CollStaffRequests: {
			{"id": 20, "serviceRequestId": 10, "title": "Clean", "status": "assigned", "notes": "bring towels"},
			{"id": 21, "serviceRequestId": 10, "title": "Done", "status": "completed", "notes": ""},
			{"id": 22, "serviceRequestId": 10, "title": "Fresh", "status": "assigned", "notes": ""},
		},
	}
}

func TestCreateStaffRequest(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	sr, err := f.requests.CreateStaffRequest(ctx, 10, StaffRequestInput{
		StaffID: 7, Title: "Clean room", Description: "Full clean", Priority: "high",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StaffAssigned, sr.Status)
	assert.Equal(t, model.ID(10), sr.ServiceRequestID)
	assert.Equal(t, model.ID(7), sr.HandledByStaffID)
	assert.Equal(t, "2024-05-20T08:30:00.000Z", sr.AssignedAt)
	assert.Nil(t, sr.CompletedAt)
	assert.Equal(t, "", sr.Notes)
	require.NotNil(t, sr.HotelID)

	svc, err := f.st.Get(ctx, model.CollServiceRequests, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceInProgress, svc.String("status"))
	assert.Equal(t, "7", svc.String("assignedStaffId"))
}

func TestCreateStaffRequestErrors(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	_, err := f.requests.CreateStaffRequest(ctx, 10, StaffRequestInput{StaffID: 7, Title: "x", Description: "y"})
	requireKind(t, err, "MissingFields")

	_, err = f.requests.CreateStaffRequest(ctx, 99, StaffRequestInput{StaffID: 7, Title: "x", Description: "y", Priority: "low"})
	requireKind(t, err, "NotFound")
	assert.Len(t, f.all(t, model.CollStaffRequests), 3)
}

func TestCompleteStaffRequestAppendsNotes(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	sr, err := f.requests.CompleteStaffRequest(ctx, 20, "done by 10am")
	require.NoError(t, err)
	assert.Equal(t, model.StaffCompleted, sr.Status)
	assert.Equal(t, "bring towels\ndone by 10am", sr.Notes)
	require.NotNil(t, sr.CompletedAt)
	assert.Equal(t, "2024-05-20T08:30:00.000Z", *sr.CompletedAt)

	sr, err = f.requests.CompleteStaffRequest(ctx, 22, "")
	require.NoError(t, err)
	assert.Equal(t, "", sr.Notes)
}

func TestCompleteStaffRequestErrors(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	_, err := f.requests.CompleteStaffRequest(ctx, 99, "")
	requireKind(t, err, "NotFound")

	_, err = f.requests.CompleteStaffRequest(ctx, 21, "again")
	requireKind(t, err, "AlreadyCompleted")
}

func TestCompleteServiceRequestNotifiesGuest(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	n, err := f.requests.CompleteServiceRequest(ctx, 10, 7, "all good")
	require.NoError(t, err)
	assert.Equal(t, model.ID(4), n.RecipientID)
	assert.Equal(t, model.NotificationUnread, n.Status)
	assert.Contains(t, n.Message, "housekeeping")

	svc, err := f.st.Get(ctx, model.CollServiceRequests, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceCompleted, svc.String("status"))
	assert.Equal(t, "7", svc.String("assignedStaffId"))
	assert.Equal(t, "all good", svc.String("completionNotes"))
	assert.Equal(t, "2024-05-20T08:30:00.000Z", svc.String("completedAt"))

	// a second completion is rejected and does not notify twice
	_, err = f.requests.CompleteServiceRequest(ctx, 10, 7, "again")
	requireKind(t, err, "AlreadyCompleted")
	assert.Len(t, f.all(t, model.CollNotifications), 1)
}

func TestCompleteServiceRequestErrors(t *testing.T) {
	f := newFixture(t, requestSeed())
	ctx := context.Background()

	_, err := f.requests.CompleteServiceRequest(ctx, 10, 0, "")
	requireKind(t, err, "MissingField")

	_, err = f.requests.CompleteServiceRequest(ctx, 99, 7, "")
	requireKind(t, err, "NotFound")

	_, err = f.requests.CompleteServiceRequest(ctx, 11, 7, "")
	requireKind(t, err, "AlreadyCompleted")
	assert.Empty(t, f.all(t, model.CollNotifications))
}
