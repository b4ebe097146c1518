// Package entity defines the smart-home records exchanged with the
// device-management backend: houses, rooms and devices, plus the request
// payloads the console sends when mutating them.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceType enumerates the device kinds the backend recognizes.
type DeviceType string

const (
	DeviceLight          DeviceType = "LIGHT"
	DeviceCamera         DeviceType = "CAMERA"
	DeviceDoorLock       DeviceType = "DOOR_LOCK"
	DeviceCurtain        DeviceType = "CURTAIN"
	DeviceFan            DeviceType = "FAN"
	DeviceAirConditioner DeviceType = "AIR_CONDITIONER"
	DeviceSpeaker        DeviceType = "SPEAKER"
	DeviceThermostat     DeviceType = "THERMOSTAT"
)

// KnownDeviceTypes lists every valid DeviceType, in display order.
var KnownDeviceTypes = []DeviceType{
	DeviceLight,
	DeviceCamera,
	DeviceDoorLock,
	DeviceCurtain,
	DeviceFan,
	DeviceAirConditioner,
	DeviceSpeaker,
	DeviceThermostat,
}

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool {
	for _, known := range KnownDeviceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is an open-ended JSON object. The backend does not enforce a
// schema for device properties, capabilities or state, so neither do we.
type Document map[string]any

// ParseDocument decodes user-supplied JSON text into a Document. Empty text
// yields an empty document. Anything that is not a JSON object is rejected.
func ParseDocument(text string) (Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	return doc, nil
}

// House is the root of the hierarchy. Deleting a house cascades to its
// rooms and their devices on the backend.
type House struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Room belongs to exactly one house.
type Room struct {
	ID          int64  `json:"id"`
	HouseID     int64  `json:"houseId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Device belongs to exactly one room. IsOn is kept untyped because the
// backend has been observed returning it as a bool, a string or a number
// depending on the device; normalization happens when the tree is built.
type Device struct {
	ID           int64      `json:"id"`
	RoomID       int64      `json:"roomId"`
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	Properties   Document   `json:"properties"`
	Capabilities Document   `json:"capabilities"`
	State        Document   `json:"state"`
	IsOn         any        `json:"isOn"`
}

// UserProfile is the authenticated user's account record.
type UserProfile struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// MemberRole is a house-membership role.
type MemberRole string

const (
	RoleMember MemberRole = "MEMBER"
	RoleAdmin  MemberRole = "ADMIN"
)
