// Package tree denormalizes cached houses, rooms and devices into the
// navigable node hierarchy the console renders. The tree is a derived
// view: it is rebuilt wholesale from cache on every reload and is never
// the source of truth. Snapshots are treated as immutable; the only
// mutation path is copy-on-write replacement of a single node.
package tree

import (
	"fmt"

	"home-console/internal/entity"
)

// Kind tags a node with the entity kind it mirrors.
type Kind string

const (
	KindHouse  Kind = "house"
	KindRoom   Kind = "room"
	KindDevice Kind = "device"
)

// Node is one entry in the console tree. Data points at the source
// entity (*entity.House, *entity.Room or *entity.Device). IsOn and
// Loading are meaningful on device nodes only.
type Node struct {
	Key      string
	Kind     Kind
	Title    string
	Data     any
	Children []*Node
	IsOn     bool
	Loading  bool
}

// Device returns the node's source device, if it is a device node.
func (n *Node) Device() (*entity.Device, bool) {
	d, ok := n.Data.(*entity.Device)
	return d, ok
}

// HouseKey derives the stable node key for a house id.
func HouseKey(id int64) string { return fmt.Sprintf("house-%d", id) }

// RoomKey derives the stable node key for a room id.
func RoomKey(id int64) string { return fmt.Sprintf("room-%d", id) }

// DeviceKey derives the stable node key for a device id.
func DeviceKey(id int64) string { return fmt.Sprintf("device-%d", id) }

// Build denormalizes one cache snapshot into a tree. It is pure and
// deterministic: node order follows input order. A room whose houseId
// has no house in the snapshot is dropped silently, as is a device whose
// roomId has no surviving room — dangling references never fail a build.
func Build(houses []entity.House, roomsByHouse map[int64][]entity.Room, devicesByRoom map[int64][]entity.Device) []*Node {
	houseIDs := make(map[int64]struct{}, len(houses))
	for _, h := range houses {
		houseIDs[h.ID] = struct{}{}
	}

	roomIDs := make(map[int64]struct{})
	for _, rooms := range roomsByHouse {
		for _, r := range rooms {
			if _, ok := houseIDs[r.HouseID]; ok {
				roomIDs[r.ID] = struct{}{}
			}
		}
	}

	nodes := make([]*Node, 0, len(houses))
	for i := range houses {
		house := houses[i]

		houseNode := &Node{
			Key:   HouseKey(house.ID),
			Kind:  KindHouse,
			Title: house.Name,
			Data:  &house,
		}

		for _, room := range roomsByHouse[house.ID] {
			if _, ok := houseIDs[room.HouseID]; !ok {
				continue
			}
			room := room

			roomNode := &Node{
				Key:   RoomKey(room.ID),
				Kind:  KindRoom,
				Title: room.Name,
				Data:  &room,
			}

			for _, device := range devicesByRoom[room.ID] {
				if _, ok := roomIDs[device.RoomID]; !ok {
					continue
				}
				device := device

				roomNode.Children = append(roomNode.Children, &Node{
					Key:   DeviceKey(device.ID),
					Kind:  KindDevice,
					Title: device.Name,
					Data:  &device,
					IsOn:  CoerceBool(device.IsOn),
				})
			}

			houseNode.Children = append(houseNode.Children, roomNode)
		}

		nodes = append(nodes, houseNode)
	}

	return nodes
}

// CoerceBool normalizes the backend's inconsistently typed isOn field.
// true, "true" and 1 all mean on; everything else means off. This is the
// single normalization point for the whole console.
func CoerceBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	case float64:
		return value == 1
	case int:
		return value == 1
	case int64:
		return value == 1
	default:
		return false
	}
}

// Find walks a snapshot and returns the node with the given key.
func Find(nodes []*Node, key string) (*Node, bool) {
	for _, n := range nodes {
		if n.Key == key {
			return n, true
		}
		if found, ok := Find(n.Children, key); ok {
			return found, true
		}
	}
	return nil, false
}

// Walk visits every node depth-first until visit returns false.
func Walk(nodes []*Node, visit func(*Node) bool) {
	var walk func([]*Node) bool
	walk = func(ns []*Node) bool {
		for _, n := range ns {
			if !visit(n) {
				return false
			}
			if !walk(n.Children) {
				return false
			}
		}
		return true
	}
	walk(nodes)
}

// Replace returns a new snapshot with the node named by key swapped for
// fn's result. Ancestors on the path to the node are copied; untouched
// subtrees are shared with the input snapshot. The input is never
// mutated, which keeps snapshots handed out earlier intact.
func Replace(nodes []*Node, key string, fn func(*Node) *Node) ([]*Node, bool) {
	for i, n := range nodes {
		if n.Key == key {
			out := make([]*Node, len(nodes))
			copy(out, nodes)
			out[i] = fn(n)
			return out, true
		}
		if children, ok := Replace(n.Children, key, fn); ok {
			parent := *n
			parent.Children = children
			out := make([]*Node, len(nodes))
			copy(out, nodes)
			out[i] = &parent
			return out, true
		}
	}
	return nodes, false
}
