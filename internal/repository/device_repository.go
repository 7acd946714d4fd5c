package repository

import (
	"context"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

type DeviceRepo struct{ c collection[model.IotDevice] }

func NewDeviceRepo(st store.Store) *DeviceRepo {
	return &DeviceRepo{c: collection[model.IotDevice]{st: st, name: model.CollDevices}}
}

// ListByRoom returns the devices installed in a room.
func (r *DeviceRepo) ListByRoom(ctx context.Context, roomID int64) ([]model.IotDevice, error) {
	return r.c.list(ctx, store.By("roomId", roomID))
}

// SaveState writes the device's current state and lastUpdated.
func (r *DeviceRepo) SaveState(ctx context.Context, d model.IotDevice) (model.IotDevice, error) {
	return r.c.update(ctx, int64(d.ID), store.Record{
		"currentState": d.CurrentState,
		"lastUpdated":  d.LastUpdated,
	})
}
