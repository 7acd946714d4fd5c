package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/iot"
	"github.com/iliyamo/hotel-management/internal/lock"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// Preferences copies a guest's comfort settings onto the devices of a room.
type Preferences struct {
	users     *repository.UserRepo
	devices   *repository.DeviceRepo
	rooms     *repository.RoomRepo
	commander iot.Commander
	locker    lock.Locker
	now       func() time.Time
	log       *zap.Logger
}

func NewPreferences(users *repository.UserRepo, devices *repository.DeviceRepo, rooms *repository.RoomRepo,
	commander iot.Commander, locker lock.Locker, now func() time.Time, log *zap.Logger) *Preferences {
	if commander == nil {
		commander = iot.Nop{}
	}
	return &Preferences{users: users, devices: devices, rooms: rooms, commander: commander, locker: locker, now: now, log: log}
}

// Apply updates every device of roomID from the preferences of guestID,
// stamps each with lastUpdated and marks the room occupied by the guest.
// Devices whose state changed are pushed to the room's controllers.
func (p *Preferences) Apply(ctx context.Context, guestID, roomID model.ID) ([]model.IotDevice, error) {
	if guestID == 0 || roomID == 0 {
		return nil, fmt.Errorf("%w: guestId and roomId are required", ErrMissingFields)
	}
	guest, err := p.users.Get(ctx, int64(guestID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrGuestNotFound, guestID)
	}
	if err != nil {
		return nil, err
	}

	unlock, err := p.locker.Lock(ctx, lock.RoomKey(int64(roomID)))
	if err != nil {
		return nil, err
	}
	defer unlock()

	devices, err := p.devices.ListByRoom(ctx, int64(roomID))
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: room %d", ErrNoDevicesInRoom, roomID)
	}

	now := model.Timestamp(p.now())
	out := make([]model.IotDevice, 0, len(devices))
	for _, d := range devices {
		changed := applyPreference(&d, guest.Preferences)
		d.LastUpdated = now
		saved, err := p.devices.SaveState(ctx, d)
		if err != nil {
			return nil, err
		}
		if changed {
			if err := p.commander.PushState(ctx, saved); err != nil {
				p.log.Warn("device push failed", zap.Int64("device_id", int64(saved.ID)), zap.Error(err))
			}
		}
		out = append(out, saved)
	}

	if _, err := p.rooms.MarkOccupied(ctx, int64(roomID), int64(guestID)); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		p.log.Warn("devices reference a missing room", zap.Int64("room_id", int64(roomID)))
	}
	p.log.Info("guest preferences applied",
		zap.Int64("guest_id", int64(guestID)),
		zap.Int64("room_id", int64(roomID)),
		zap.Int("devices", len(out)),
	)
	return out, nil
}

// applyPreference sets the device-type specific part of prefs on d and
// reports whether a rule matched. Other state keys are kept.
func applyPreference(d *model.IotDevice, prefs *model.Preferences) bool {
	if prefs == nil {
		return false
	}
	set := func(kv map[string]any) {
		state := make(map[string]any, len(d.CurrentState)+len(kv))
		for k, v := range d.CurrentState {
			state[k] = v
		}
		for k, v := range kv {
			state[k] = v
		}
		d.CurrentState = state
	}

	switch d.DeviceType {
	case model.DeviceThermostat:
		if model.Set(prefs.Temperature) {
			set(map[string]any{"temperature": prefs.Temperature})
			return true
		}
	case model.DeviceLight:
		if model.Set(prefs.Lighting) {
			kv := map[string]any{"isOn": true}
			brightness, color := prefs.LightingValues()
			if brightness != nil {
				kv["brightness"] = brightness
			}
			if color != nil {
				kv["color"] = color
			}
			set(kv)
			return true
		}
	case model.DeviceCurtains:
		if model.Set(prefs.Curtains) {
			set(map[string]any{"position": prefs.Curtains})
			return true
		}
	case model.DeviceTV:
		if model.Set(prefs.TvVolume) {
			set(map[string]any{"volume": prefs.TvVolume})
			return true
		}
	}
	return false
}
