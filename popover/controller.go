// Package popover implements the non-activating, auto-sizing,
// exclusive-group-aware floating panels the rest of the application
// opens beneath a trigger: the Popover Controller.
package popover

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/eventbus"
	"github.com/SphereStacking/Fluopanel/geometry"
	"github.com/SphereStacking/Fluopanel/nativewin"
	"github.com/SphereStacking/Fluopanel/winreg"
)

// ErrNotFound mirrors winreg.ErrNotFound.
var ErrNotFound = winreg.ErrNotFound

// OpenArgs are the host-side arguments to Open.
type OpenArgs struct {
	ID        string
	Anchor    geometry.Rect
	Width     float64
	Height    float64
	Align     Align
	OffsetY   float64
	Exclusive Exclusive
}

// OpenResult is what Open returns. Closed is true when the call was a
// toggle-close of an already-open popover; in that case Label and
// MaxHeight are zero and no new panel was created.
type OpenResult struct {
	Label     string
	Closed    bool
	MaxHeight float64
}

type state struct {
	record    Record
	handle    nativewin.Handle
	x, y      float64
	closeOnce *sync.Once
}

// Controller is the Popover Controller. One Controller owns every
// live popover for the process.
type Controller struct {
	reg      *winreg.Registry
	monitors *display.Registry
	backend  nativewin.Backend

	coordinatorOrigin string
	coordinatorPath   string

	closed *eventbus.Bus[string]

	mu   sync.Mutex
	open map[string]*state
}

// New constructs a Controller and subscribes it to monitors so that a
// popover whose anchor monitor disappears is closed rather than left
// stranded off the virtual desktop.
func New(reg *winreg.Registry, monitors *display.Registry, backend nativewin.Backend, coordinatorOrigin, coordinatorPath string) *Controller {
	c := &Controller{
		reg:               reg,
		monitors:          monitors,
		backend:           backend,
		coordinatorOrigin: coordinatorOrigin,
		coordinatorPath:   coordinatorPath,
		closed:            eventbus.New[string](),
		open:              make(map[string]*state),
	}
	monitors.Subscribe(func([]display.Monitor) { c.closeOrphanedByTopology() })
	return c
}

// closeOrphanedByTopology closes any popover whose anchor no longer
// lies within any monitor's bounds, per the decision that a removed
// anchor monitor closes the popover rather than leaving it in an
// undefined position.
func (c *Controller) closeOrphanedByTopology() {
	mons, err := c.monitors.List()
	if err != nil {
		return
	}
	geomMons := display.ToGeometry(mons)

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, st := range c.open {
		if !anchorMonitorStillPresent(st.record.Anchor, geomMons) {
			c.closeLocked(id, st)
		}
	}
}

// Subscribe registers a sink for PopoverClosed(id) events, emitted
// exactly once per popover per transition out of the Open state,
// whether the cause was blur, an explicit close, close_all, or an
// exclusive-group closure.
func (c *Controller) Subscribe(cb func(id string)) *eventbus.Subscription {
	return c.closed.Subscribe(cb)
}

// Open realizes args.ID as a new panel, or, if it is already open,
// toggles it closed and returns Closed=true. Exclusive-group members
// are closed synchronously before the new popover is created, so a
// PopoverClosed observer sees every group closure before the new
// Open's effects are visible.
func (c *Controller) Open(args OpenArgs) (OpenResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.open[args.ID]; ok {
		c.closeLocked(args.ID, st)
		return OpenResult{Closed: true}, nil
	}

	if args.Exclusive.active() {
		for id, st := range c.open {
			if args.Exclusive.matches(id) {
				c.closeLocked(id, st)
			}
		}
	}

	mons, err := c.monitors.List()
	if err != nil {
		return OpenResult{}, err
	}
	rect, _, maxHeight, err := place(args.Anchor, args.Width, args.Height, args.OffsetY, args.Align, display.ToGeometry(mons))
	if err != nil {
		return OpenResult{}, err
	}

	label := fmt.Sprintf("popover-%s", args.ID)
	handle, err := c.backend.Create(nativewin.Spec{
		Title:       label,
		URL:         c.defaultURL(args.ID, maxHeight),
		X:           rect.X,
		Y:           rect.Y,
		W:           rect.W,
		H:           rect.H,
		Transparent: true,
		Decorations: false,
		Resizable:   false,
		Panel:       true,
	})
	if err != nil {
		return OpenResult{}, err
	}

	rec := Record{
		ID:             args.ID,
		Label:          label,
		Anchor:         args.Anchor,
		Align:          args.Align,
		OffsetY:        args.OffsetY,
		MaxHeight:      maxHeight,
		ExclusiveGroup: args.Exclusive.describe(),
	}

	if err := c.reg.Insert(winreg.Record{
		ID:        args.ID,
		Label:     label,
		Role:      winreg.RolePopover,
		Rectangle: winreg.Rectangle{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H},
		Status:    winreg.StatusVisible,
	}); err != nil {
		c.backend.Close(handle)
		return OpenResult{}, err
	}
	if err := c.backend.Show(handle); err != nil {
		c.reg.Remove(args.ID)
		c.backend.Close(handle)
		return OpenResult{}, err
	}

	st := &state{record: rec, handle: handle, x: rect.X, y: rect.Y, closeOnce: &sync.Once{}}
	c.open[args.ID] = st
	c.backend.OnBlur(handle, func() { c.onBlur(args.ID) })

	return OpenResult{Label: label, Closed: false, MaxHeight: maxHeight}, nil
}

func (c *Controller) defaultURL(id string, maxHeight float64) string {
	return fmt.Sprintf("%s%s?popover=%s&max_height=%s",
		c.coordinatorOrigin, c.coordinatorPath, url.QueryEscape(id), strconv.Itoa(int(maxHeight)))
}

// onBlur is the native callback invoked when a popover's panel loses
// focus. It takes the same lock as every public method, so a blur
// racing an explicit Close cannot double-close: whichever acquires
// the lock first runs closeLocked and its sync.Once guarantees the
// event fires only once.
func (c *Controller) onBlur(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.open[id]; ok {
		c.closeLocked(id, st)
	}
}

// Close destroys id's panel. Idempotent: closing an id that is not
// open is a no-op, not an error.
func (c *Controller) Close(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.open[id]; ok {
		c.closeLocked(id, st)
	}
	return nil
}

// CloseAll destroys every open panel.
func (c *Controller) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, st := range c.open {
		c.closeLocked(id, st)
	}
}

// ListOpen returns the ids of every currently open popover, in no
// particular order.
func (c *Controller) ListOpen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.open))
	for id := range c.open {
		out = append(out, id)
	}
	return out
}

// SetSize resizes id's panel to (w, h), clamped to the max_height
// computed when the popover was opened.
func (c *Controller) SetSize(id string, w, h float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.open[id]
	if !ok {
		return ErrNotFound
	}
	if h > st.record.MaxHeight {
		h = st.record.MaxHeight
	}
	if err := c.backend.SetSize(st.handle, w, h); err != nil {
		return err
	}
	return c.reg.UpdateRectangle(id, winreg.Rectangle{X: st.x, Y: st.y, W: w, H: h})
}

// closeLocked tears down st and emits PopoverClosed(id) at most once.
// Callers must hold c.mu.
func (c *Controller) closeLocked(id string, st *state) {
	delete(c.open, id)
	c.backend.Close(st.handle)
	c.reg.Remove(id)
	st.closeOnce.Do(func() {
		c.closed.Publish(id)
	})
}
