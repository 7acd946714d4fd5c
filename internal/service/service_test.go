package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/lock"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/store"
)

var fixedNow = time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
	hook   func(queue.BookingConfirmedEvent)
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	if p.hook != nil {
		p.hook(ev)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingCommander struct {
	pushed []model.IotDevice
}

func (c *recordingCommander) PushState(_ context.Context, d model.IotDevice) error {
	c.pushed = append(c.pushed, d)
	return nil
}

type fixture struct {
	st        *store.File
	locker    lock.Locker
	publisher *recordingPublisher
	commander *recordingCommander

	availability *Availability
	bookings     *Bookings
	requests     *Requests
	preferences  *Preferences
	auth         *Auth
}

func newFixture(t *testing.T, seed map[string][]store.Record) *fixture {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()
	for coll, recs := range seed {
		for _, rec := range recs {
			_, err := st.Append(ctx, coll, rec)
			require.NoError(t, err)
		}
	}
	log := zap.NewNop()
	locker := lock.NewLocal()
	rooms := repository.NewRoomRepo(st)
	bookings := repository.NewBookingRepo(st)
	users := repository.NewUserRepo(st)
	pub := &recordingPublisher{}
	cmd := &recordingCommander{}

	return &fixture{
		st:           st,
		locker:       locker,
		publisher:    pub,
		commander:    cmd,
		availability: NewAvailability(rooms, bookings, log),
		bookings:     NewBookings(rooms, bookings, locker, pub, clock, log),
		requests: NewRequests(repository.NewServiceRequestRepo(st), repository.NewStaffRequestRepo(st),
			repository.NewNotificationRepo(st), locker, clock, log),
		preferences: NewPreferences(users, repository.NewDeviceRepo(st), rooms, cmd, locker, clock, log),
		auth:        NewAuth(users, AuthConfig{Secret: "test-secret", TokenTTL: time.Hour, BcryptCost: 4}, clock, log),
	}
}

func (f *fixture) all(t *testing.T, coll string) []store.Record {
	t.Helper()
	recs, err := f.st.Filter(context.Background(), coll, store.Query{})
	require.NoError(t, err)
	return recs
}

// requireKind asserts err is a domain error with the given code.
func requireKind(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok, "not a domain error: %v", err)
	require.Equal(t, code, e.Code)
}
