// Package nativewin owns the one genuinely platform-specific layer: the
// native window handle itself. Everything above it (inlinewindow,
// popover) talks to a Backend and never imports glfw or any platform
// API directly.
package nativewin

import "errors"

// ErrCreateFailed is returned when the platform failed to realize a
// window at all.
var ErrCreateFailed = errors.New("nativewin: failed to create native window")

// ErrPanelUnavailable is returned when a window was created but the
// platform cannot grant it non-activating, always-on-top panel
// behavior (the Popover Controller's contract).
var ErrPanelUnavailable = errors.New("nativewin: platform cannot realize a non-activating panel")

// Spec describes everything needed to realize a native window or
// panel. URL is opaque to the backend; it is handed to the platform's
// webview/content host, which is out of this package's scope.
type Spec struct {
	Title       string
	URL         string
	X, Y, W, H  float64
	Transparent bool
	AlwaysOnTop bool
	Decorations bool
	Resizable   bool
	SkipTaskbar bool
	// Panel marks a non-activating floating panel (a popover), as
	// opposed to an ordinary decorated inline window.
	Panel bool
}

// Handle identifies a created native window to later Backend calls.
// Its zero value is never valid.
type Handle uint64

// Backend creates and manipulates native windows. A single Backend
// instance is shared by every package that needs a native surface
// (inlinewindow, popover); it is safe for concurrent use only when its
// methods are invoked from the owning UI-thread goroutine, matching
// the single-threaded cooperative model the rest of the core assumes.
type Backend interface {
	// Create realizes a new native window per spec and returns a
	// handle to it. Fails with ErrCreateFailed or, for spec.Panel,
	// ErrPanelUnavailable if non-activating behavior cannot be
	// granted.
	Create(spec Spec) (Handle, error)

	SetPosition(h Handle, x, y float64) error
	SetSize(h Handle, w, height float64) error
	Show(h Handle) error
	Hide(h Handle) error
	Close(h Handle) error

	// OnBlur registers a callback invoked when the window identified
	// by h loses focus, used by the Popover Controller's blur-dismiss
	// behavior. Passing a nil callback clears any prior registration.
	OnBlur(h Handle, cb func())
}
