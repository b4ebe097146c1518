// Package cache memoizes backend reads for the console session. Houses
// are cached as one list, rooms per house, devices per room. Entries
// expire after a TTL and an expired entry is treated as absent — callers
// refetch. There is no size bound; entity counts here are human-scale.
package cache

import (
	"sync"
	"time"

	"home-console/internal/clock"
	"home-console/internal/entity"
)

// DefaultTTL is how long an entry stays usable after a fetch.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Store is the per-session entity cache. One instance is shared by every
// consumer; it is owned and injected by the orchestrator rather than
// living as package state.
type Store struct {
	clk clock.Clock
	ttl time.Duration

	mu      sync.RWMutex
	houses  *entry[[]entity.House]
	rooms   map[int64]entry[[]entity.Room]
	devices map[int64]entry[[]entity.Device]
}

// New creates an empty store. A zero ttl falls back to DefaultTTL.
func New(clk clock.Clock, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		clk:     clk,
		ttl:     ttl,
		rooms:   make(map[int64]entry[[]entity.Room]),
		devices: make(map[int64]entry[[]entity.Device]),
	}
}

func (s *Store) fresh(fetchedAt time.Time) bool {
	return s.clk.Since(fetchedAt) < s.ttl
}

// Houses returns the cached house list if present and unexpired.
func (s *Store) Houses() ([]entity.House, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.houses == nil || !s.fresh(s.houses.fetchedAt) {
		return nil, false
	}
	return s.houses.value, true
}

// PutHouses stores the house list, replacing any prior entry.
func (s *Store) PutHouses(houses []entity.House) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses = &entry[[]entity.House]{value: houses, fetchedAt: s.clk.Now()}
}

// InvalidateHouses drops the house list entry only.
func (s *Store) InvalidateHouses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses = nil
}

// Rooms returns the cached room list for a house if present and unexpired.
func (s *Store) Rooms(houseID int64) ([]entity.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rooms[houseID]
	if !ok || !s.fresh(e.fetchedAt) {
		return nil, false
	}
	return e.value, true
}

// PutRooms stores the room list for a house.
func (s *Store) PutRooms(houseID int64, rooms []entity.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[houseID] = entry[[]entity.Room]{value: rooms, fetchedAt: s.clk.Now()}
}

// InvalidateRooms drops one house's room list.
func (s *Store) InvalidateRooms(houseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, houseID)
}

// Devices returns the cached device list for a room if present and unexpired.
func (s *Store) Devices(roomID int64) ([]entity.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.devices[roomID]
	if !ok || !s.fresh(e.fetchedAt) {
		return nil, false
	}
	return e.value, true
}

// PutDevices stores the device list for a room.
func (s *Store) PutDevices(roomID int64, devices []entity.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[roomID] = entry[[]entity.Device]{value: devices, fetchedAt: s.clk.Now()}
}

// InvalidateDevices drops one room's device list.
func (s *Store) InvalidateDevices(roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.devices, roomID)
}

// DropHouse mirrors the backend's delete cascade locally: the house list,
// the house's room list, and the device lists of every room that list
// named are all purged. Rooms the cache never saw have no device entries
// to purge.
func (s *Store) DropHouse(houseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.houses = nil
	if rooms, ok := s.rooms[houseID]; ok {
		for _, room := range rooms.value {
			delete(s.devices, room.ID)
		}
	}
	delete(s.rooms, houseID)
}

// DropRoom purges a deleted room's device list along with the house list,
// which names the room's parent and is now stale.
func (s *Store) DropRoom(roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.houses = nil
	delete(s.devices, roomID)
	for houseID, rooms := range s.rooms {
		for _, room := range rooms.value {
			if room.ID == roomID {
				delete(s.rooms, houseID)
				break
			}
		}
	}
}

// Clear empties every store. Used on explicit refresh and after
// structural mutations that cannot cheaply scope their invalidation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses = nil
	s.rooms = make(map[int64]entry[[]entity.Room])
	s.devices = make(map[int64]entry[[]entity.Device])
}
