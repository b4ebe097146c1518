// Package syncer coordinates the console's view of the backend: it runs
// full-tree reloads through the cache, applies CRUD mutations with scoped
// cache invalidation, and handles the optimistic device-state fast path.
// The cache and the current tree snapshot are owned here and injected
// into consumers; nothing lives at package level.
package syncer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"home-console/internal/api"
	"home-console/internal/cache"
	"home-console/internal/entity"
	"home-console/internal/tree"
)

// Phase is the orchestrator's load state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Orchestrator keeps the tree consistent with the backend across reloads,
// mutations and device toggles.
type Orchestrator struct {
	api    *api.Client
	cache  *cache.Store
	logger *zap.Logger

	mu       sync.RWMutex
	phase    Phase
	snapshot []*tree.Node
	selected string
}

// New creates an idle orchestrator around the given client and cache.
func New(client *api.Client, store *cache.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		api:    client,
		cache:  store,
		logger: logger,
		phase:  PhaseIdle,
	}
}

// Phase returns the current load state.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// Tree returns the current snapshot. Snapshots are immutable; callers
// may hold them across reloads.
func (o *Orchestrator) Tree() []*tree.Node {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot
}

// Select marks the node with the given key as active for detail display.
// Selecting a key absent from the current snapshot reports false.
func (o *Orchestrator) Select(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := tree.Find(o.snapshot, key); !ok {
		return false
	}
	o.selected = key
	return true
}

// Selected resolves the active node against the current snapshot. A node
// that disappeared in a reload yields false.
func (o *Orchestrator) Selected() (*tree.Node, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.selected == "" {
		return nil, false
	}
	return tree.Find(o.snapshot, o.selected)
}

// ClearSelection forgets the active node.
func (o *Orchestrator) ClearSelection() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = ""
}

// LoadAll rebuilds the tree: houses first, then rooms for every house in
// parallel, then — after all room fetches settle — devices for every room
// in parallel. Each fetch consults the cache before going to the network.
// Any single failure aborts the whole reload and leaves an empty tree;
// a partial tree would show a house with missing rooms as if it had none.
func (o *Orchestrator) LoadAll(ctx context.Context) error {
	o.setPhase(PhaseLoading)

	houses, err := o.fetchHouses(ctx)
	if err != nil {
		o.fail(err)
		return err
	}

	if len(houses) == 0 {
		o.publish(nil)
		return nil
	}

	roomsByHouse, err := o.fetchRooms(ctx, houses)
	if err != nil {
		o.fail(err)
		return err
	}

	devicesByRoom, err := o.fetchDevices(ctx, roomsByHouse)
	if err != nil {
		o.fail(err)
		return err
	}

	o.publish(tree.Build(houses, roomsByHouse, devicesByRoom))
	return nil
}

// Refresh drops every cache entry and reloads, guaranteeing a true
// round-trip to the backend.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.cache.Clear()
	return o.LoadAll(ctx)
}

func (o *Orchestrator) fetchHouses(ctx context.Context) ([]entity.House, error) {
	if houses, ok := o.cache.Houses(); ok {
		return houses, nil
	}
	houses, err := o.api.ListHouses(ctx)
	if err != nil {
		return nil, err
	}
	o.cache.PutHouses(houses)
	return houses, nil
}

func (o *Orchestrator) fetchRooms(ctx context.Context, houses []entity.House) (map[int64][]entity.Room, error) {
	var mu sync.Mutex
	roomsByHouse := make(map[int64][]entity.Room, len(houses))

	g, ctx := errgroup.WithContext(ctx)
	for _, house := range houses {
		houseID := house.ID
		g.Go(func() error {
			rooms, ok := o.cache.Rooms(houseID)
			if !ok {
				var err error
				rooms, err = o.api.ListRooms(ctx, houseID)
				if err != nil {
					return fmt.Errorf("rooms of house %d: %w", houseID, err)
				}
				o.cache.PutRooms(houseID, rooms)
			}
			mu.Lock()
			roomsByHouse[houseID] = rooms
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roomsByHouse, nil
}

func (o *Orchestrator) fetchDevices(ctx context.Context, roomsByHouse map[int64][]entity.Room) (map[int64][]entity.Device, error) {
	var rooms []entity.Room
	for _, rs := range roomsByHouse {
		rooms = append(rooms, rs...)
	}

	var mu sync.Mutex
	devicesByRoom := make(map[int64][]entity.Device, len(rooms))

	g, ctx := errgroup.WithContext(ctx)
	for _, room := range rooms {
		roomID := room.ID
		g.Go(func() error {
			devices, ok := o.cache.Devices(roomID)
			if !ok {
				var err error
				devices, err = o.api.ListDevices(ctx, roomID)
				if err != nil {
					return fmt.Errorf("devices of room %d: %w", roomID, err)
				}
				o.cache.PutDevices(roomID, devices)
			}
			mu.Lock()
			devicesByRoom[roomID] = devices
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return devicesByRoom, nil
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = p
}

func (o *Orchestrator) publish(snapshot []*tree.Node) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot = snapshot
	o.phase = PhaseReady
}

func (o *Orchestrator) fail(err error) {
	o.logger.Error("Tree reload failed", zap.Error(err))
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot = nil
	o.phase = PhaseFailed
}
