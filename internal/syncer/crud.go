package syncer

import (
	"context"

	"go.uber.org/zap"

	"home-console/internal/entity"
)

// CRUD operations mutate the backend first, then invalidate the smallest
// cache scope the mutation can stale, then reload so the tree reflects
// the change. A failed backend call mutates nothing locally; the error
// propagates for the caller to report.

// CreateHouse adds a house. The house list cannot scope its own
// invalidation cheaper than a full clear.
func (o *Orchestrator) CreateHouse(ctx context.Context, input entity.HouseInput) (*entity.House, error) {
	house, err := o.api.CreateHouse(ctx, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("House created", zap.Int64("house_id", house.ID))
	o.cache.Clear()
	return house, o.LoadAll(ctx)
}

// UpdateHouse edits a house.
func (o *Orchestrator) UpdateHouse(ctx context.Context, houseID int64, input entity.HouseInput) (*entity.House, error) {
	house, err := o.api.UpdateHouse(ctx, houseID, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("House updated", zap.Int64("house_id", houseID))
	o.cache.Clear()
	return house, o.LoadAll(ctx)
}

// DeleteHouse removes a house. The backend cascades to rooms and devices,
// so the local cache mirrors that cascade before reloading.
func (o *Orchestrator) DeleteHouse(ctx context.Context, houseID int64) error {
	if err := o.api.DeleteHouse(ctx, houseID); err != nil {
		return err
	}
	o.logger.Info("House deleted", zap.Int64("house_id", houseID))
	o.cache.DropHouse(houseID)
	return o.LoadAll(ctx)
}

// CreateRoom adds a room. Only the owning house's room list goes stale.
func (o *Orchestrator) CreateRoom(ctx context.Context, houseID int64, input entity.RoomInput) (*entity.Room, error) {
	room, err := o.api.CreateRoom(ctx, houseID, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Room created",
		zap.Int64("house_id", houseID),
		zap.Int64("room_id", room.ID))
	o.cache.InvalidateRooms(houseID)
	return room, o.LoadAll(ctx)
}

// UpdateRoom edits a room. The room is addressed without its house, so
// the invalidation cannot be scoped.
func (o *Orchestrator) UpdateRoom(ctx context.Context, roomID int64, input entity.RoomInput) (*entity.Room, error) {
	room, err := o.api.UpdateRoom(ctx, roomID, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Room updated", zap.Int64("room_id", roomID))
	o.cache.Clear()
	return room, o.LoadAll(ctx)
}

// DeleteRoom removes a room and purges its device entries.
func (o *Orchestrator) DeleteRoom(ctx context.Context, roomID int64) error {
	if err := o.api.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	o.logger.Info("Room deleted", zap.Int64("room_id", roomID))
	o.cache.DropRoom(roomID)
	return o.LoadAll(ctx)
}

// CreateDevice registers a device in input.RoomID's room.
func (o *Orchestrator) CreateDevice(ctx context.Context, input entity.DeviceInput) (*entity.Device, error) {
	device, err := o.api.CreateDevice(ctx, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Device created",
		zap.Int64("room_id", input.RoomID),
		zap.Int64("device_id", device.ID))
	o.cache.InvalidateDevices(input.RoomID)
	return device, o.LoadAll(ctx)
}

// UpdateDevice edits a device in place within roomID's room.
func (o *Orchestrator) UpdateDevice(ctx context.Context, deviceID, roomID int64, input entity.DeviceInput) (*entity.Device, error) {
	device, err := o.api.UpdateDevice(ctx, deviceID, input)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Device updated", zap.Int64("device_id", deviceID))
	o.cache.InvalidateDevices(roomID)
	return device, o.LoadAll(ctx)
}

// DeleteDevice removes a device from roomID's room.
func (o *Orchestrator) DeleteDevice(ctx context.Context, deviceID, roomID int64) error {
	if err := o.api.DeleteDevice(ctx, deviceID); err != nil {
		return err
	}
	o.logger.Info("Device deleted", zap.Int64("device_id", deviceID))
	o.cache.InvalidateDevices(roomID)
	return o.LoadAll(ctx)
}

// AddHouseMember grants a user membership in a house. Membership does not
// appear in the tree, so no cache scope goes stale.
func (o *Orchestrator) AddHouseMember(ctx context.Context, input entity.MemberInput) error {
	if err := o.api.AddHouseMember(ctx, input); err != nil {
		return err
	}
	o.logger.Info("House member added",
		zap.Int64("house_id", input.HouseID),
		zap.Int64("user_id", input.UserID))
	return nil
}
