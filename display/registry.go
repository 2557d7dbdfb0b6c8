package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/SphereStacking/Fluopanel/base/debounce"
	"github.com/SphereStacking/Fluopanel/eventbus"
)

// CoalesceWindow is the debounce window for consecutive native
// notifications.
const CoalesceWindow = 150 * time.Millisecond

// Registry maintains a consistent snapshot of all displays and
// publishes it to subscribers whenever the platform reports a
// topology change, coalescing bursts of native notifications into at
// most one event per CoalesceWindow.
type Registry struct {
	provider Provider

	mu       sync.RWMutex
	snapshot []Monitor
	has      bool

	bus   *eventbus.Bus[[]Monitor]
	timer debounce.Slot
}

// NewRegistry constructs a Registry backed by provider and performs
// the initial List immediately (best-effort; a cold start with zero
// monitors leaves has=false and List returns ErrNoDisplays until the
// first successful snapshot arrives).
func NewRegistry(provider Provider) *Registry {
	r := &Registry{
		provider: provider,
		bus:      eventbus.New[[]Monitor](),
	}
	r.refresh()
	provider.Watch(r.onNativeChange)
	return r
}

// List returns the current snapshot. Returns ErrNoDisplays if no
// snapshot has arrived yet.
func (r *Registry) List() ([]Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.has {
		return nil, ErrNoDisplays
	}
	out := make([]Monitor, len(r.snapshot))
	copy(out, r.snapshot)
	return out, nil
}

// Subscribe registers a sink that receives the new snapshot after
// every coalesced change. The returned Subscription must be retained
// and Unsubscribe-d to stop receiving events.
func (r *Registry) Subscribe(cb func([]Monitor)) *eventbus.Subscription {
	return r.bus.Subscribe(cb)
}

// onNativeChange is the Provider's raw, possibly-bursty change
// notification. It re-arms a single debounce slot so that several
// notifications within CoalesceWindow produce one downstream Publish
// carrying the last snapshot.
func (r *Registry) onNativeChange() {
	r.timer.Arm(CoalesceWindow, func() {
		if !r.refresh() {
			return
		}
		if snap, err := r.List(); err == nil {
			r.bus.Publish(snap)
		}
	})
}

// refresh queries the provider and updates the snapshot. On error the
// previous snapshot is preserved and the error is logged; subscribers
// are not notified. An empty monitor list is treated the same way. It
// reports whether the snapshot was updated.
func (r *Registry) refresh() bool {
	mons, err := r.provider.List()
	if err == nil && len(mons) == 0 {
		err = ErrNoDisplays
	}
	if err != nil {
		slog.Error("display: failed to query monitors, keeping previous snapshot", "error", err)
		return false
	}
	r.mu.Lock()
	r.snapshot = mons
	r.has = true
	r.mu.Unlock()
	if Debug {
		slog.Debug("display: snapshot updated", "count", len(mons))
	}
	return true
}
