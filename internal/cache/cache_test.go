package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-console/internal/clock"
	"home-console/internal/entity"
)

func newTestStore(t *testing.T) (*Store, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(clk, DefaultTTL), clk
}

func TestHousesTTL(t *testing.T) {
	store, clk := newTestStore(t)

	_, ok := store.Houses()
	assert.False(t, ok, "empty store should miss")

	store.PutHouses([]entity.House{{ID: 1, Name: "Home"}})

	houses, ok := store.Houses()
	require.True(t, ok)
	assert.Equal(t, "Home", houses[0].Name)

	clk.Advance(DefaultTTL - time.Millisecond)
	_, ok = store.Houses()
	assert.True(t, ok, "entry just under the TTL should hit")

	clk.Advance(time.Millisecond)
	_, ok = store.Houses()
	assert.False(t, ok, "entry at exactly the TTL should miss")
}

func TestRoomAndDeviceTTL(t *testing.T) {
	store, clk := newTestStore(t)

	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1}})
	store.PutDevices(10, []entity.Device{{ID: 100, RoomID: 10}})

	clk.Advance(DefaultTTL)

	_, ok := store.Rooms(1)
	assert.False(t, ok)
	_, ok = store.Devices(10)
	assert.False(t, ok)
}

func TestPutReplacesStaleEntry(t *testing.T) {
	store, clk := newTestStore(t)

	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1, Name: "old"}})
	clk.Advance(DefaultTTL)

	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1, Name: "new"}})
	rooms, ok := store.Rooms(1)
	require.True(t, ok, "fresh put must revive the key")
	assert.Equal(t, "new", rooms[0].Name)
}

func TestInvalidationScoping(t *testing.T) {
	store, _ := newTestStore(t)

	// House 1 owns room 10, house 2 owns room 20.
	store.PutHouses([]entity.House{{ID: 1}, {ID: 2}})
	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1}})
	store.PutRooms(2, []entity.Room{{ID: 20, HouseID: 2}})
	store.PutDevices(10, []entity.Device{{ID: 100, RoomID: 10}})
	store.PutDevices(20, []entity.Device{{ID: 200, RoomID: 20}})

	store.InvalidateRooms(1)

	_, ok := store.Rooms(1)
	assert.False(t, ok)
	_, ok = store.Rooms(2)
	assert.True(t, ok, "other house's rooms must survive")
	_, ok = store.Devices(20)
	assert.True(t, ok, "devices under the other house must survive")
	_, ok = store.Devices(10)
	assert.True(t, ok, "room invalidation alone must not touch device entries")
}

func TestDropHouseCascade(t *testing.T) {
	store, _ := newTestStore(t)

	store.PutHouses([]entity.House{{ID: 1}, {ID: 2}})
	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1}, {ID: 11, HouseID: 1}})
	store.PutRooms(2, []entity.Room{{ID: 20, HouseID: 2}})
	store.PutDevices(10, []entity.Device{{ID: 100, RoomID: 10}})
	store.PutDevices(11, []entity.Device{{ID: 110, RoomID: 11}})
	store.PutDevices(20, []entity.Device{{ID: 200, RoomID: 20}})

	store.DropHouse(1)

	_, ok := store.Houses()
	assert.False(t, ok, "house list must be purged")
	_, ok = store.Rooms(1)
	assert.False(t, ok, "dropped house's room list must be purged")
	_, ok = store.Devices(10)
	assert.False(t, ok, "devices of room 10 must be purged")
	_, ok = store.Devices(11)
	assert.False(t, ok, "devices of room 11 must be purged")

	_, ok = store.Rooms(2)
	assert.True(t, ok, "other house's rooms must survive")
	_, ok = store.Devices(20)
	assert.True(t, ok, "other house's devices must survive")
}

func TestDropRoom(t *testing.T) {
	store, _ := newTestStore(t)

	store.PutHouses([]entity.House{{ID: 1}})
	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1}, {ID: 11, HouseID: 1}})
	store.PutDevices(10, []entity.Device{{ID: 100, RoomID: 10}})
	store.PutDevices(11, []entity.Device{{ID: 110, RoomID: 11}})

	store.DropRoom(10)

	_, ok := store.Houses()
	assert.False(t, ok)
	_, ok = store.Devices(10)
	assert.False(t, ok)
	_, ok = store.Rooms(1)
	assert.False(t, ok, "parent house's room list named the dead room")
	_, ok = store.Devices(11)
	assert.True(t, ok, "sibling room's devices must survive")
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)

	store.PutHouses([]entity.House{{ID: 1}})
	store.PutRooms(1, []entity.Room{{ID: 10, HouseID: 1}})
	store.PutDevices(10, []entity.Device{{ID: 100, RoomID: 10}})

	store.Clear()

	_, ok := store.Houses()
	assert.False(t, ok)
	_, ok = store.Rooms(1)
	assert.False(t, ok)
	_, ok = store.Devices(10)
	assert.False(t, ok)
}
