// Package inlinewindow realizes and repositions the coordinator's
// declared inline windows: ordinary decorated or undecorated windows
// whose placement is driven by the Geometry Solver and the Monitor
// Registry, recorded in the Window Registry.
package inlinewindow

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/geometry"
	"github.com/SphereStacking/Fluopanel/nativewin"
	"github.com/SphereStacking/Fluopanel/winreg"
)

// ErrNotFound mirrors winreg.ErrNotFound for callers that only import
// this package.
var ErrNotFound = winreg.ErrNotFound

// Config carries the window flags applied at creation. The zero value
// means "use the configured defaults" (see Controller.defaults), so a
// Config with every flag false cannot be requested through Create.
type Config struct {
	Transparent bool
	AlwaysOnTop bool
	Decorations bool
	Resizable   bool
	SkipTaskbar bool
}

type entry struct {
	descriptor geometry.Position
	handle     nativewin.Handle
	url        string
}

// Controller is the Inline Window Controller. One Controller owns all
// live inline windows for the process.
type Controller struct {
	reg      *winreg.Registry
	monitors *display.Registry
	backend  nativewin.Backend

	coordinatorOrigin string
	coordinatorPath   string
	defaults          Config

	mu      sync.Mutex
	entries map[string]entry
}

// New constructs a Controller and subscribes it to monitors so that
// every live inline window is repositioned whenever the display
// topology changes. defaults is applied by Create whenever its caller
// passes the zero Config, per the documented window-flag defaults
// (config.Settings.DefaultWindow).
func New(reg *winreg.Registry, monitors *display.Registry, backend nativewin.Backend, coordinatorOrigin, coordinatorPath string, defaults Config) *Controller {
	c := &Controller{
		reg:               reg,
		monitors:          monitors,
		backend:           backend,
		coordinatorOrigin: coordinatorOrigin,
		coordinatorPath:   coordinatorPath,
		defaults:          defaults,
		entries:           make(map[string]entry),
	}
	monitors.Subscribe(func([]display.Monitor) { c.repositionAll() })
	return c
}

// Create realizes a new inline window. If overrideURL is empty, the
// default URL (<coordinator-origin><coordinator-path>?window=<id>) is
// used. create is atomic at the record level: if native creation
// fails, the registry record is rolled back before the error is
// returned.
func (c *Controller) Create(id string, pos geometry.Position, cfg Config, overrideURL string) error {
	if cfg == (Config{}) {
		cfg = c.defaults
	}

	c.reg.LockID(id)
	defer c.reg.UnlockID(id)

	mons, err := c.monitors.List()
	if err != nil {
		return err
	}
	rect, _, err := geometry.Solve(pos, display.ToGeometry(mons))
	if err != nil {
		return err
	}

	label := fmt.Sprintf("inline-window-%s", id)
	if err := c.reg.Insert(winreg.Record{
		ID:        id,
		Label:     label,
		Role:      winreg.RoleInlineWindow,
		Rectangle: winreg.Rectangle{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H},
		Status:    winreg.StatusPending,
	}); err != nil {
		return err
	}

	target := overrideURL
	if target == "" {
		target = c.defaultURL(id)
	}

	handle, err := c.backend.Create(nativewin.Spec{
		Title:       label,
		URL:         target,
		X:           rect.X,
		Y:           rect.Y,
		W:           rect.W,
		H:           rect.H,
		Transparent: cfg.Transparent,
		AlwaysOnTop: cfg.AlwaysOnTop,
		Decorations: cfg.Decorations,
		Resizable:   cfg.Resizable,
		SkipTaskbar: cfg.SkipTaskbar,
	})
	if err != nil {
		c.reg.Remove(id)
		return err
	}
	if err := c.backend.Show(handle); err != nil {
		c.backend.Close(handle)
		c.reg.Remove(id)
		return err
	}

	c.mu.Lock()
	c.entries[id] = entry{descriptor: pos, handle: handle, url: target}
	c.mu.Unlock()

	return c.reg.SetStatus(id, winreg.StatusVisible)
}

func (c *Controller) defaultURL(id string) string {
	return fmt.Sprintf("%s%s?window=%s", c.coordinatorOrigin, c.coordinatorPath, url.QueryEscape(id))
}

// UpdatePosition recomputes id's rectangle from pos and moves the
// native window to it.
func (c *Controller) UpdatePosition(id string, pos geometry.Position) error {
	c.reg.LockID(id)
	defer c.reg.UnlockID(id)

	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	mons, err := c.monitors.List()
	if err != nil {
		return err
	}
	rect, _, err := geometry.Solve(pos, display.ToGeometry(mons))
	if err != nil {
		return err
	}

	if err := c.backend.SetPosition(e.handle, rect.X, rect.Y); err != nil {
		return err
	}
	if err := c.backend.SetSize(e.handle, rect.W, rect.H); err != nil {
		return err
	}
	if err := c.reg.UpdateRectangle(id, winreg.Rectangle{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}); err != nil {
		return err
	}

	e.descriptor = pos
	c.mu.Lock()
	c.entries[id] = e
	c.mu.Unlock()
	return nil
}

// Show makes id's window visible.
func (c *Controller) Show(id string) error {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := c.backend.Show(e.handle); err != nil {
		return err
	}
	return c.reg.SetStatus(id, winreg.StatusVisible)
}

// Hide makes id's window invisible without closing it.
func (c *Controller) Hide(id string) error {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := c.backend.Hide(e.handle); err != nil {
		return err
	}
	return c.reg.SetStatus(id, winreg.StatusHidden)
}

// Close destroys id's native window and removes its record.
func (c *Controller) Close(id string) error {
	c.mu.Lock()
	e, ok := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	err := c.backend.Close(e.handle)
	c.reg.Remove(id)
	return err
}

// repositionAll recomputes every live inline window's rectangle
// against the current monitor snapshot. A descriptor naming a monitor
// that has disappeared resolves against the primary instead, via
// geometry.SelectMonitor's own fallback; a solve failure on other
// grounds (an unresolvable axis) is logged and that window is left in
// place.
func (c *Controller) repositionAll() {
	mons, err := c.monitors.List()
	if err != nil {
		return
	}
	geomMons := display.ToGeometry(mons)

	c.mu.Lock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.reg.LockID(id)
		c.mu.Lock()
		e, ok := c.entries[id]
		c.mu.Unlock()
		if !ok {
			c.reg.UnlockID(id)
			continue
		}

		rect, _, err := geometry.Solve(e.descriptor, geomMons)
		if err != nil {
			slog.Error("inlinewindow: failed to reposition after topology change", "id", id, "error", err)
			c.reg.UnlockID(id)
			continue
		}

		if err := c.backend.SetPosition(e.handle, rect.X, rect.Y); err != nil {
			slog.Error("inlinewindow: failed to move native window", "id", id, "error", err)
		} else if err := c.backend.SetSize(e.handle, rect.W, rect.H); err != nil {
			slog.Error("inlinewindow: failed to resize native window", "id", id, "error", err)
		} else if err := c.reg.UpdateRectangle(id, winreg.Rectangle{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}); err != nil && !errors.Is(err, winreg.ErrNotFound) {
			slog.Error("inlinewindow: failed to update registry rectangle", "id", id, "error", err)
		}
		c.reg.UnlockID(id)
	}
}
