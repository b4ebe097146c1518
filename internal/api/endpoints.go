package api

import (
	"context"
	"fmt"
	"net/http"

	"home-console/internal/entity"
)

// ListHouses fetches every house visible to the current user.
func (c *Client) ListHouses(ctx context.Context) ([]entity.House, error) {
	data, err := c.Request(ctx, http.MethodGet, "/houses", nil)
	if err != nil {
		return nil, err
	}
	var houses []entity.House
	if err := decode(data, &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// CreateHouse creates a house and returns the stored record.
func (c *Client) CreateHouse(ctx context.Context, input entity.HouseInput) (*entity.House, error) {
	data, err := c.Request(ctx, http.MethodPost, "/houses", input)
	if err != nil {
		return nil, err
	}
	var house entity.House
	if err := decode(data, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

// UpdateHouse replaces a house's editable fields.
func (c *Client) UpdateHouse(ctx context.Context, houseID int64, input entity.HouseInput) (*entity.House, error) {
	data, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/houses/%d", houseID), input)
	if err != nil {
		return nil, err
	}
	var house entity.House
	if err := decode(data, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

// DeleteHouse removes a house. The backend cascades to its rooms and devices.
func (c *Client) DeleteHouse(ctx context.Context, houseID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/houses/%d", houseID), nil)
	return err
}

// ListRooms fetches the rooms of one house.
func (c *Client) ListRooms(ctx context.Context, houseID int64) ([]entity.Room, error) {
	data, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/houses/%d/rooms", houseID), nil)
	if err != nil {
		return nil, err
	}
	var rooms []entity.Room
	if err := decode(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom creates a room under a house.
func (c *Client) CreateRoom(ctx context.Context, houseID int64, input entity.RoomInput) (*entity.Room, error) {
	data, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/houses/%d/rooms", houseID), input)
	if err != nil {
		return nil, err
	}
	var room entity.Room
	if err := decode(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom replaces a room's editable fields.
func (c *Client) UpdateRoom(ctx context.Context, roomID int64, input entity.RoomInput) (*entity.Room, error) {
	data, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/rooms/%d", roomID), input)
	if err != nil {
		return nil, err
	}
	var room entity.Room
	if err := decode(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room and, on the backend, its devices.
func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", roomID), nil)
	return err
}

// ListDevices fetches the devices of one room.
func (c *Client) ListDevices(ctx context.Context, roomID int64) ([]entity.Device, error) {
	data, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/devices/room/%d", roomID), nil)
	if err != nil {
		return nil, err
	}
	var devices []entity.Device
	if err := decode(data, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// CreateDevice registers a device in the room named by input.RoomID.
func (c *Client) CreateDevice(ctx context.Context, input entity.DeviceInput) (*entity.Device, error) {
	data, err := c.Request(ctx, http.MethodPost, "/devices", input)
	if err != nil {
		return nil, err
	}
	var device entity.Device
	if err := decode(data, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDevice replaces a device's editable fields.
func (c *Client) UpdateDevice(ctx context.Context, deviceID int64, input entity.DeviceInput) (*entity.Device, error) {
	data, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/devices/%d", deviceID), input)
	if err != nil {
		return nil, err
	}
	var device entity.Device
	if err := decode(data, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// DeleteDevice removes a device.
func (c *Client) DeleteDevice(ctx context.Context, deviceID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/devices/%d", deviceID), nil)
	return err
}

// ControlDevice sends a state document to a device, e.g. {"isOn": true}
// or {"brightness": 70}. The backend decides what the document means for
// the device's type.
func (c *Client) ControlDevice(ctx context.Context, deviceID int64, state entity.Document) error {
	_, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/devices/%d/control", deviceID), state)
	return err
}

// AddHouseMember grants a user membership in a house.
func (c *Client) AddHouseMember(ctx context.Context, input entity.MemberInput) error {
	_, err := c.Request(ctx, http.MethodPost, "/houses/members", input)
	return err
}

// Profile fetches the current user's account record.
func (c *Client) Profile(ctx context.Context) (*entity.UserProfile, error) {
	data, err := c.Request(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	var profile entity.UserProfile
	if err := decode(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login exchanges credentials for a bearer token. The caller stores the
// token in the session.
func (c *Client) Login(ctx context.Context, input entity.LoginInput) (string, error) {
	data, err := c.Request(ctx, http.MethodPost, "/auth/login", input, NoAuth())
	if err != nil {
		return "", err
	}
	var token string
	if err := decode(data, &token); err != nil {
		return "", err
	}
	return token, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, input entity.RegisterInput) error {
	_, err := c.Request(ctx, http.MethodPost, "/auth/register", input, NoAuth())
	return err
}

// ForgotPassword asks the backend to mail a reset token.
func (c *Client) ForgotPassword(ctx context.Context, input entity.ForgotPasswordInput) error {
	_, err := c.Request(ctx, http.MethodPost, "/auth/forgot-password", input, NoAuth())
	return err
}

// ResetPassword redeems a reset token.
func (c *Client) ResetPassword(ctx context.Context, input entity.ResetPasswordInput) error {
	_, err := c.Request(ctx, http.MethodPost, "/auth/reset-password", input, NoAuth())
	return err
}
