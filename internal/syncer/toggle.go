package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"home-console/internal/entity"
	"home-console/internal/tree"
)

// SetDeviceState is the optimistic fast path for device control. The tree
// shows the requested state immediately, with the node marked loading,
// before the backend confirms. Success commits and clears the loading
// flag; failure restores the exact pre-toggle node and re-raises the
// error. No cache invalidation or reload happens on this path.
func (o *Orchestrator) SetDeviceState(ctx context.Context, deviceID int64, partial entity.Document) error {
	key := tree.DeviceKey(deviceID)

	o.mu.Lock()
	prev, ok := tree.Find(o.snapshot, key)
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("device %d not in tree", deviceID)
	}
	next := deviceNodeWith(prev, partial, true)
	o.snapshot, _ = tree.Replace(o.snapshot, key, func(*tree.Node) *tree.Node { return next })
	o.mu.Unlock()

	if err := o.api.ControlDevice(ctx, deviceID, partial); err != nil {
		o.logger.Warn("Device control failed, rolling back",
			zap.Int64("device_id", deviceID),
			zap.Error(err))
		o.replaceNode(key, prev)
		return err
	}

	committed := *next
	committed.Loading = false
	o.replaceNode(key, &committed)
	return nil
}

// ApplyDeviceState folds a confirmed state change (e.g. from the live
// event feed) into the tree. It reuses the single-node replacement path
// and touches neither the cache nor the load phase. Events for devices
// not in the current snapshot are dropped.
func (o *Orchestrator) ApplyDeviceState(deviceID int64, state entity.Document) bool {
	key := tree.DeviceKey(deviceID)

	o.mu.Lock()
	defer o.mu.Unlock()

	node, ok := tree.Find(o.snapshot, key)
	if !ok {
		return false
	}
	o.snapshot, _ = tree.Replace(o.snapshot, key, func(*tree.Node) *tree.Node {
		return deviceNodeWith(node, state, false)
	})
	return true
}

// replaceNode swaps one node in the current snapshot. If a reload removed
// the key in the meantime, the swap is a no-op; the later-settling reload
// defines the visible state.
func (o *Orchestrator) replaceNode(key string, node *tree.Node) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot, _ = tree.Replace(o.snapshot, key, func(*tree.Node) *tree.Node { return node })
}

// deviceNodeWith clones a device node with partial merged into its state
// document. The source node and its entity are left untouched so an
// earlier snapshot can restore them verbatim.
func deviceNodeWith(node *tree.Node, partial entity.Document, loading bool) *tree.Node {
	next := *node
	next.Loading = loading

	if device, ok := node.Device(); ok {
		updated := *device
		updated.State = make(entity.Document, len(device.State)+len(partial))
		for k, v := range device.State {
			updated.State[k] = v
		}
		for k, v := range partial {
			updated.State[k] = v
		}
		if isOn, ok := partial["isOn"]; ok {
			updated.IsOn = isOn
		}
		next.Data = &updated
		next.IsOn = tree.CoerceBool(updated.IsOn)
	}

	return &next
}
