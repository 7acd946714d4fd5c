package repository

import (
	"context"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

type ServiceRequestRepo struct {
	c collection[model.ServiceRequest]
}

func NewServiceRequestRepo(st store.Store) *ServiceRequestRepo {
	return &ServiceRequestRepo{c: collection[model.ServiceRequest]{st: st, name: model.CollServiceRequests}}
}

func (r *ServiceRequestRepo) Get(ctx context.Context, id int64) (model.ServiceRequest, error) {
	return r.c.get(ctx, id)
}

// Assign moves the request to in-progress under staffID.
func (r *ServiceRequestRepo) Assign(ctx context.Context, id, staffID int64) (model.ServiceRequest, error) {
	return r.c.update(ctx, id, store.Record{
		"status":          model.ServiceInProgress,
		"assignedStaffId": staffID,
	})
}

// Complete closes the request.
func (r *ServiceRequestRepo) Complete(ctx context.Context, id, staffID int64, at, notes string) (model.ServiceRequest, error) {
	return r.c.update(ctx, id, store.Record{
		"status":          model.ServiceCompleted,
		"assignedStaffId": staffID,
		"completedAt":     at,
		"completionNotes": notes,
	})
}

type StaffRequestRepo struct {
	c collection[model.StaffRequest]
}

func NewStaffRequestRepo(st store.Store) *StaffRequestRepo {
	return &StaffRequestRepo{c: collection[model.StaffRequest]{st: st, name: model.CollStaffRequests}}
}

func (r *StaffRequestRepo) Get(ctx context.Context, id int64) (model.StaffRequest, error) {
	return r.c.get(ctx, id)
}

func (r *StaffRequestRepo) Create(ctx context.Context, s model.StaffRequest) (model.StaffRequest, error) {
	return r.c.create(ctx, s)
}

// Complete closes the staff request with the given notes.
func (r *StaffRequestRepo) Complete(ctx context.Context, id int64, at, notes string) (model.StaffRequest, error) {
	return r.c.update(ctx, id, store.Record{
		"status":      model.StaffCompleted,
		"completedAt": at,
		"notes":       notes,
	})
}

type NotificationRepo struct {
	c collection[model.Notification]
}

func NewNotificationRepo(st store.Store) *NotificationRepo {
	return &NotificationRepo{c: collection[model.Notification]{st: st, name: model.CollNotifications}}
}

func (r *NotificationRepo) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	return r.c.create(ctx, n)
}

// ListForRecipient returns the notifications addressed to a user.
func (r *NotificationRepo) ListForRecipient(ctx context.Context, userID int64) ([]model.Notification, error) {
	return r.c.list(ctx, store.By("recipientId", userID))
}
