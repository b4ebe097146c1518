package syncer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"home-console/internal/api"
	"home-console/internal/cache"
	"home-console/internal/clock"
	"home-console/internal/entity"
	"home-console/internal/session"
)

// fakeBackend is an in-memory device-management backend for orchestrator
// tests. It records every call so tests can assert cache behavior, and
// can be told to fail specific routes.
type fakeBackend struct {
	mu      sync.Mutex
	houses  []entity.House
	rooms   map[int64][]entity.Room
	devices map[int64][]entity.Device
	nextID  int64

	calls map[string]int
	fail  map[string]int // route -> status

	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		rooms:   make(map[int64][]entity.Room),
		devices: make(map[int64][]entity.Device),
		nextID:  1000,
		calls:   make(map[string]int),
		fail:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /houses", func(w http.ResponseWriter, r *http.Request) {
		b.reply(w, b.houses)
	})
	mux.HandleFunc("POST /houses", func(w http.ResponseWriter, r *http.Request) {
		var input entity.HouseInput
		json.NewDecoder(r.Body).Decode(&input)
		house := entity.House{ID: b.id(), Name: input.Name, Address: input.Address}
		b.houses = append(b.houses, house)
		b.reply(w, house)
	})
	mux.HandleFunc("PUT /houses/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var input entity.HouseInput
		json.NewDecoder(r.Body).Decode(&input)
		for i := range b.houses {
			if b.houses[i].ID == id {
				b.houses[i].Name = input.Name
				b.reply(w, b.houses[i])
				return
			}
		}
		http.Error(w, `{"message":"no such house"}`, http.StatusNotFound)
	})
	mux.HandleFunc("DELETE /houses/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		kept := b.houses[:0]
		for _, h := range b.houses {
			if h.ID != id {
				kept = append(kept, h)
			}
		}
		b.houses = kept
		for _, room := range b.rooms[id] {
			delete(b.devices, room.ID)
		}
		delete(b.rooms, id)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /houses/{id}/rooms", func(w http.ResponseWriter, r *http.Request) {
		b.reply(w, b.rooms[pathID(r, "id")])
	})
	mux.HandleFunc("POST /houses/{id}/rooms", func(w http.ResponseWriter, r *http.Request) {
		houseID := pathID(r, "id")
		var input entity.RoomInput
		json.NewDecoder(r.Body).Decode(&input)
		room := entity.Room{ID: b.id(), HouseID: houseID, Name: input.Name}
		b.rooms[houseID] = append(b.rooms[houseID], room)
		b.reply(w, room)
	})
	mux.HandleFunc("PUT /rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var input entity.RoomInput
		json.NewDecoder(r.Body).Decode(&input)
		for houseID := range b.rooms {
			for i := range b.rooms[houseID] {
				if b.rooms[houseID][i].ID == id {
					b.rooms[houseID][i].Name = input.Name
					b.reply(w, b.rooms[houseID][i])
					return
				}
			}
		}
		http.Error(w, `{"message":"no such room"}`, http.StatusNotFound)
	})
	mux.HandleFunc("DELETE /rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		for houseID, rooms := range b.rooms {
			kept := rooms[:0]
			for _, room := range rooms {
				if room.ID != id {
					kept = append(kept, room)
				}
			}
			b.rooms[houseID] = kept
		}
		delete(b.devices, id)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /devices/room/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.reply(w, b.devices[pathID(r, "id")])
	})
	mux.HandleFunc("POST /devices", func(w http.ResponseWriter, r *http.Request) {
		var input entity.DeviceInput
		json.NewDecoder(r.Body).Decode(&input)
		device := entity.Device{ID: b.id(), RoomID: input.RoomID, Name: input.Name, Type: input.Type}
		b.devices[input.RoomID] = append(b.devices[input.RoomID], device)
		b.reply(w, device)
	})
	mux.HandleFunc("DELETE /devices/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		for roomID, devices := range b.devices {
			kept := devices[:0]
			for _, d := range devices {
				if d.ID != id {
					kept = append(kept, d)
				}
			}
			b.devices[roomID] = kept
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /devices/{id}/control", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var state entity.Document
		json.NewDecoder(r.Body).Decode(&state)
		for roomID := range b.devices {
			for i := range b.devices[roomID] {
				if b.devices[roomID][i].ID == id {
					if isOn, ok := state["isOn"]; ok {
						b.devices[roomID][i].IsOn = isOn
					}
					b.reply(w, map[string]bool{"success": true})
					return
				}
			}
		}
		http.Error(w, `{"message":"no such device"}`, http.StatusNotFound)
	})

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		route := r.Method + " " + r.URL.Path
		b.calls[route]++
		if status, ok := b.fail[route]; ok {
			http.Error(w, `{"message":"injected failure"}`, status)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) reply(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (b *fakeBackend) id() int64 {
	b.nextID++
	return b.nextID
}

// count returns how many times a route was hit, e.g. "GET /houses".
func (b *fakeBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// failWith makes one route return the given status.
func (b *fakeBackend) failWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[route] = status
}

func (b *fakeBackend) heal(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fail, route)
}

// seedScenario loads the canonical Home/Bedroom/Lamp hierarchy plus a
// second house so scoping tests can tell "mine" from "other".
func (b *fakeBackend) seedScenario() {
	b.houses = []entity.House{{ID: 1, Name: "Home"}, {ID: 2, Name: "Cabin"}}
	b.rooms = map[int64][]entity.Room{
		1: {{ID: 10, HouseID: 1, Name: "Bedroom"}},
		2: {{ID: 20, HouseID: 2, Name: "Porch"}},
	}
	b.devices = map[int64][]entity.Device{
		10: {{ID: 100, RoomID: 10, Name: "Lamp", Type: entity.DeviceLight, IsOn: true}},
		20: {{ID: 200, RoomID: 20, Name: "Heater", Type: entity.DeviceThermostat, IsOn: false}},
	}
}

func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("bad %s path value: %v", name, err))
	}
	return id
}

// newTestOrchestrator wires an orchestrator to a fake backend with a
// manual clock so tests control cache expiry.
func newTestOrchestrator(t *testing.T, b *fakeBackend) (*Orchestrator, *clock.Manual) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	client := api.NewClient(b.server.URL, session.NewStore("test_token"), 0, logger)
	store := cache.New(clk, cache.DefaultTTL)
	return New(client, store, logger), clk
}
