// Package coordinator is the process-wide state machine distinguishing
// the coordinator role from the child role, gating coordinator
// self-hiding on child-creation completion, and forwarding display and
// external events to every interested window. It also owns the
// process's single UI-thread goroutine, since native window and panel
// operations on the target platform must happen there.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/ipc"
	"github.com/SphereStacking/Fluopanel/launchctx"
	"github.com/SphereStacking/Fluopanel/popover"
)

type uiTask struct {
	f    func() error
	done chan error
}

// Orchestrator owns the pending/completed window-id bookkeeping, the
// broadcast event bus, and the single channel every mutating
// operation in winreg/inlinewindow/popover is serialized through.
type Orchestrator struct {
	Role launchctx.Context

	events *ipc.EventBus

	mu      sync.Mutex
	pending map[string]struct{}
	waiters []chan struct{}

	hideSelfFn func() error

	queue chan uiTask
}

// New constructs an Orchestrator for the given launch context.
// hideSelfFn realizes hide_self; it may be nil for a child process,
// which never calls it.
func New(ctx launchctx.Context, events *ipc.EventBus, hideSelfFn func() error) *Orchestrator {
	return &Orchestrator{
		Role:       ctx,
		events:     events,
		pending:    make(map[string]struct{}),
		hideSelfFn: hideSelfFn,
		queue:      make(chan uiTask),
	}
}

// IsCoordinator reports whether this process/surface is playing the
// coordinator role, i.e. was launched without a window or popover
// context.
func (o *Orchestrator) IsCoordinator() bool {
	return o.Role.Role == launchctx.RoleCoordinator
}

// Run is the UI-thread event loop: it must be called from the
// goroutine that owns native window state, and blocks until ctx is
// done.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-o.queue:
			t.done <- t.f()
		}
	}
}

// runOnUIThread posts f to the UI-thread loop and blocks until it
// completes.
func (o *Orchestrator) runOnUIThread(f func() error) error {
	done := make(chan error, 1)
	o.queue <- uiTask{f: f, done: done}
	return <-done
}

// RunOnUIThread posts f to the UI-thread loop and blocks until it
// completes or returns its error. Exported so callers that own their
// own mutating operations (inlinewindow.Controller, popover.Controller
// callers) can serialize through the same queue the Orchestrator
// drains.
func (o *Orchestrator) RunOnUIThread(f func() error) error {
	return o.runOnUIThread(f)
}

// RunOnUIThreadR is the generic variant of RunOnUIThread for
// operations that return a value alongside an error.
func RunOnUIThreadR[T any](o *Orchestrator, f func() (T, error)) (T, error) {
	var result T
	err := o.runOnUIThread(func() error {
		var innerErr error
		result, innerErr = f()
		return innerErr
	})
	return result, err
}

// DeclarePending marks id as pending: declared by the application but
// not yet reporting its native surface realized.
func (o *Orchestrator) DeclarePending(id string) {
	o.mu.Lock()
	o.pending[id] = struct{}{}
	o.mu.Unlock()
}

// CompletePending reports that id's native surface is realized. If
// the pending set becomes empty, every caller blocked in WaitForAll
// is released.
func (o *Orchestrator) CompletePending(id string) {
	o.mu.Lock()
	delete(o.pending, id)
	empty := len(o.pending) == 0
	var waiters []chan struct{}
	if empty {
		waiters, o.waiters = o.waiters, nil
	}
	o.mu.Unlock()
	for _, w := range waiters {
		close(w)
	}
}

// WaitForAll blocks until the pending set is empty or ctx is done. If
// a pending window never completes, WaitForAll never returns on its
// own; callers are expected to enforce their own timeout via ctx.
func (o *Orchestrator) WaitForAll(ctx context.Context) error {
	o.mu.Lock()
	if len(o.pending) == 0 {
		o.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	o.waiters = append(o.waiters, w)
	o.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HideSelf hides the coordinator's own native surface. It is a no-op
// returning nil if no hideSelfFn was supplied (a child process never
// needs it).
func (o *Orchestrator) HideSelf() error {
	if o.hideSelfFn == nil {
		return nil
	}
	return o.hideSelfFn()
}

// ForwardMonitorChanges subscribes to monitors and republishes every
// coalesced topology change as a MonitorTopologyChanged event.
func (o *Orchestrator) ForwardMonitorChanges(monitors *display.Registry) {
	monitors.Subscribe(func(snapshot []display.Monitor) {
		o.events.PublishMonitorTopologyChanged(snapshot)
	})
}

// ForwardPopoverClosures subscribes to popovers and republishes every
// PopoverClosed event.
func (o *Orchestrator) ForwardPopoverClosures(popovers *popover.Controller) {
	popovers.Subscribe(func(id string) {
		o.events.PublishPopoverClosed(id)
	})
}

// InjectExternalEvent accepts an event from the IPC collaborator
// (ipc.SocketForwarder or any other source) and broadcasts it to
// children as ExternalEvent.
func (o *Orchestrator) InjectExternalEvent(name string, args []string) {
	slog.Debug("coordinator: external event received", "name", name, "args", args)
	o.events.PublishExternal(name, args)
}
