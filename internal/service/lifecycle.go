package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/lock"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// StaffRequestInput opens a staff request on a service request.
type StaffRequestInput struct {
	StaffID     model.ID `json:"staffId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Notes       string   `json:"notes"`
}

// Requests moves service and staff requests through their states:
// service requests pending → in-progress → completed, staff requests
// assigned → completed. Transitions of one record are serialised so a
// request is completed, and its guest notified, at most once.
type Requests struct {
	service       *repository.ServiceRequestRepo
	staff         *repository.StaffRequestRepo
	notifications *repository.NotificationRepo
	locker        lock.Locker
	now           func() time.Time
	log           *zap.Logger
}

func NewRequests(service *repository.ServiceRequestRepo, staff *repository.StaffRequestRepo,
	notifications *repository.NotificationRepo, locker lock.Locker, now func() time.Time, log *zap.Logger) *Requests {
	return &Requests{service: service, staff: staff, notifications: notifications, locker: locker, now: now, log: log}
}

// CreateStaffRequest opens a staff request assigned to in.StaffID and
// moves the linked service request to in-progress.
func (r *Requests) CreateStaffRequest(ctx context.Context, serviceRequestID int64, in StaffRequestInput) (model.StaffRequest, error) {
	if in.StaffID == 0 || strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Priority) == "" {
		return model.StaffRequest{}, fmt.Errorf("%w: staffId, title, description and priority are required", ErrMissingFields)
	}

	unlock, err := r.locker.Lock(ctx, lock.RequestKey(model.CollServiceRequests, serviceRequestID))
	if err != nil {
		return model.StaffRequest{}, err
	}
	defer unlock()

	sr, err := r.service.Get(ctx, serviceRequestID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.StaffRequest{}, fmt.Errorf("%w: service request %d", ErrNotFound, serviceRequestID)
	}
	if err != nil {
		return model.StaffRequest{}, err
	}

	now := model.Timestamp(r.now())
	created, err := r.staff.Create(ctx, model.StaffRequest{
		HotelID:          sr.HotelID,
		ServiceRequestID: sr.ID,
		Title:            in.Title,
		Description:      in.Description,
		Status:           model.StaffAssigned,
		Priority:         in.Priority,
		CreatedAt:        now,
		HandledByStaffID: in.StaffID,
		AssignedAt:       now,
		Notes:            in.Notes,
	})
	if err != nil {
		return model.StaffRequest{}, err
	}
	if _, err := r.service.Assign(ctx, serviceRequestID, int64(in.StaffID)); err != nil {
		return model.StaffRequest{}, err
	}
	r.log.Info("staff request created",
		zap.Int64("staff_request_id", int64(created.ID)),
		zap.Int64("service_request_id", serviceRequestID),
		zap.Int64("staff_id", int64(in.StaffID)),
	)
	return created, nil
}

// CompleteStaffRequest closes a staff request, appending notes on a new
// line after the existing ones.
func (r *Requests) CompleteStaffRequest(ctx context.Context, id int64, notes string) (model.StaffRequest, error) {
	unlock, err := r.locker.Lock(ctx, lock.RequestKey(model.CollStaffRequests, id))
	if err != nil {
		return model.StaffRequest{}, err
	}
	defer unlock()

	sr, err := r.staff.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.StaffRequest{}, fmt.Errorf("%w: staff request %d", ErrNotFound, id)
	}
	if err != nil {
		return model.StaffRequest{}, err
	}
	if sr.Status == model.StaffCompleted {
		return model.StaffRequest{}, fmt.Errorf("%w: staff request %d", ErrAlreadyCompleted, id)
	}

	merged := sr.Notes
	if notes != "" {
		if merged == "" {
			merged = notes
		} else {
			merged = merged + "\n" + notes
		}
	}
	done, err := r.staff.Complete(ctx, id, model.Timestamp(r.now()), merged)
	if err != nil {
		return model.StaffRequest{}, err
	}
	r.log.Info("staff request completed", zap.Int64("staff_request_id", id))
	return done, nil
}

// CompleteServiceRequest closes a service request on behalf of staffID and
// leaves an unread notification for the guest who raised it.
func (r *Requests) CompleteServiceRequest(ctx context.Context, id int64, staffID model.ID, notes string) (model.Notification, error) {
	if staffID == 0 {
		return model.Notification{}, fmt.Errorf("%w: staffId", ErrMissingField)
	}

	unlock, err := r.locker.Lock(ctx, lock.RequestKey(model.CollServiceRequests, id))
	if err != nil {
		return model.Notification{}, err
	}
	defer unlock()

	sr, err := r.service.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Notification{}, fmt.Errorf("%w: service request %d", ErrNotFound, id)
	}
	if err != nil {
		return model.Notification{}, err
	}
	if sr.Status == model.ServiceCompleted {
		return model.Notification{}, fmt.Errorf("%w: service request %d", ErrAlreadyCompleted, id)
	}

	now := model.Timestamp(r.now())
	if _, err := r.service.Complete(ctx, id, int64(staffID), now, notes); err != nil {
		return model.Notification{}, err
	}
	n, err := r.notifications.Create(ctx, model.Notification{
		HotelID:     sr.HotelID,
		RecipientID: sr.UserID,
		Title:       "Request completed",
		Message:     fmt.Sprintf("Your %q request has been completed.", sr.RequestType),
		Status:      model.NotificationUnread,
		CreatedAt:   now,
	})
	if err != nil {
		return model.Notification{}, err
	}
	r.log.Info("service request completed",
		zap.Int64("service_request_id", id),
		zap.Int64("staff_id", int64(staffID)),
		zap.Int64("notified_user_id", int64(sr.UserID)),
	)
	return n, nil
}
