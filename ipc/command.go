// Package ipc is the host/native request-response boundary: a typed
// command channel in-process (no wire framing needed, since the same
// binary hosts both halves) plus the event bus that carries
// MonitorTopologyChanged, PopoverClosed, and ExternalEvent out to
// subscribers.
package ipc

import (
	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/geometry"
)

// Kind identifies which request a Command carries.
type Kind string

const (
	KindCreateInlineWindow Kind = "create_inline_window"
	KindUpdateWindowPos    Kind = "update_window_position"
	KindShowWindow         Kind = "show_window"
	KindHideWindow         Kind = "hide_window"
	KindCloseWindow        Kind = "close_window"
	KindGetMonitors        Kind = "get_monitors"
	KindOpenPopover        Kind = "open_popover"
	KindClosePopover       Kind = "close_popover"
	KindCloseAllPopovers   Kind = "close_all_popovers"
	KindGetOpenPopovers    Kind = "get_open_popovers"
	KindSetWindowSize      Kind = "set_window_size"
)

// WindowConfig is the create_inline_window argument payload beyond id
// and position.
type WindowConfig struct {
	URL         string
	Transparent bool
	AlwaysOnTop bool
	Decorations bool
	Resizable   bool
	SkipTaskbar bool
}

// PopoverOpenArgs is the open_popover argument payload.
type PopoverOpenArgs struct {
	ID        string
	Anchor    geometry.Rect
	Width     float64
	Height    float64
	Align     string
	OffsetY   float64
	Exclusive string // "", "all", or a group prefix
}

// Command is the closed tagged union of requests a caller can post to
// a Channel. Exactly the fields relevant to Kind are meaningful; the
// rest are zero.
type Command struct {
	Kind Kind

	ID       string
	Label    string
	Position geometry.Position
	Window   WindowConfig
	Popover  PopoverOpenArgs
	Width    float64
	Height   float64
}

// Reply is the result of executing a Command. At most one of the
// typed fields is populated, matching the table in the command
// reference; commands that reply only "ok" populate none.
type Reply struct {
	Err error

	Monitors    []display.Monitor
	OpenIDs     []string
	PopoverOpen PopoverOpenReply
}

// PopoverOpenReply mirrors open_popover's {label, closed, max_height}
// reply shape.
type PopoverOpenReply struct {
	Label     string
	Closed    bool
	MaxHeight float64
}
