// Package geometry solves declarative position descriptors against a
// monitor table into concrete on-screen rectangles. It is pure: the same
// Position and monitor table always yield the same Rect, which makes it
// suitable for property-based testing (see solver_test.go).
package geometry

import (
	"errors"
	"fmt"
)

// ErrUnresolvablePosition is returned when a Position's fields do not
// supply exactly one soluble combination for an axis.
var ErrUnresolvablePosition = errors.New("geometry: unresolvable position")

// Primary is the sentinel monitor name meaning "use the primary display".
const Primary = "primary"

// Position is a CSS-style bounding-box descriptor in logical pixels.
// A nil *float64 field means "absent". All fields are optional; which
// combination is present on each axis determines how that axis solves
// (see Solve).
type Position struct {
	Monitor string

	Top    *float64
	Bottom *float64
	Left   *float64
	Right  *float64
	Width  *float64
	Height *float64
}

// Rect is an absolute rectangle in virtual-desktop logical pixels.
type Rect struct {
	X, Y, W, H float64
}

// Monitor is the minimal view of a display the solver needs. It
// mirrors display.Monitor's geometry fields without importing that
// package, keeping geometry dependency-free.
type Monitor struct {
	Name string
	X, Y float64
	W, H float64
}

func f(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// SelectMonitor implements spec step 1: an explicit name matches the
// first monitor of that name; "primary"/absent/no-match falls back to
// monitors[0], which callers are expected to keep primary-first.
func SelectMonitor(pos Position, monitors []Monitor) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("geometry: no monitors available")
	}
	if pos.Monitor != "" && pos.Monitor != Primary {
		for _, m := range monitors {
			if m.Name == pos.Monitor {
				return m, nil
			}
		}
	}
	return monitors[0], nil
}

// Solve selects a monitor, solves each axis independently, and
// translates the local result into virtual-desktop coordinates.
// Widths/heights are clamped to a minimum of 1; a negative solved
// origin or size, or an origin at or beyond the monitor's far edge, is
// reported as ErrUnresolvablePosition.
func Solve(pos Position, monitors []Monitor) (Rect, Monitor, error) {
	mon, err := SelectMonitor(pos, monitors)
	if err != nil {
		return Rect{}, Monitor{}, err
	}

	xLocal, w, err := solveAxis(pos.Left, pos.Right, pos.Width, mon.W)
	if err != nil {
		return Rect{}, Monitor{}, fmt.Errorf("%w: horizontal axis: %v", ErrUnresolvablePosition, err)
	}
	yLocal, h, err := solveAxis(pos.Top, pos.Bottom, pos.Height, mon.H)
	if err != nil {
		return Rect{}, Monitor{}, fmt.Errorf("%w: vertical axis: %v", ErrUnresolvablePosition, err)
	}

	return Rect{
		X: mon.X + xLocal,
		Y: mon.Y + yLocal,
		W: w,
		H: h,
	}, mon, nil
}

// solveAxis solves one axis given its three optional inputs (near/far
// edge offsets and an explicit extent) and the monitor's extent along
// that axis. near=left/top, far=right/bottom, extent=width/height.
func solveAxis(near, far, extent *float64, monExtent float64) (origin, size float64, err error) {
	hasNear, hasFar, hasExtent := near != nil, far != nil, extent != nil

	if hasNear && hasFar && hasExtent {
		return 0, 0, fmt.Errorf("axis has all of {near,far,extent} set, need exactly one soluble combination")
	}

	switch {
	case hasNear && hasFar:
		origin = f(near)
		size = monExtent - f(near) - f(far)
	case hasNear && hasExtent:
		origin = f(near)
		size = f(extent)
	case hasFar && hasExtent:
		size = f(extent)
		origin = monExtent - f(far) - size
	case hasNear && !hasFar && !hasExtent:
		origin = f(near)
		size = monExtent - f(near)
	case hasFar && !hasNear && !hasExtent:
		size = monExtent - f(far)
		origin = monExtent - f(far) - size
	case hasExtent && !hasNear && !hasFar:
		size = f(extent)
		origin = (monExtent - size) / 2
	default:
		return 0, 0, fmt.Errorf("axis has %d of {near,far,extent} set, need exactly one soluble combination", boolCount(hasNear, hasFar, hasExtent))
	}

	if origin < 0 || size < 0 || origin >= monExtent {
		return 0, 0, fmt.Errorf("solved origin=%.2f size=%.2f is invalid", origin, size)
	}
	size = max(1, size)
	return origin, size, nil
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

// Clamp restricts a horizontal span [origin, origin+size) to lie within
// [min, min+extent), preserving size. Shared with popover placement so
// both components clamp to a monitor's interior identically.
func Clamp(origin, size, min, extent float64) float64 {
	if origin < min {
		origin = min
	}
	if origin+size > min+extent {
		origin = min + extent - size
	}
	return origin
}

// Describe derives the Position that would solve to rect on mon, using
// left+width, top+height form. It is the inverse used by round-trip
// tests: solving Describe(rect, mon) against a table containing mon
// must reproduce an equivalent rect.
func Describe(rect Rect, mon Monitor) Position {
	left := rect.X - mon.X
	top := rect.Y - mon.Y
	width := rect.W
	height := rect.H
	return Position{
		Monitor: mon.Name,
		Left:    &left,
		Top:     &top,
		Width:   &width,
		Height:  &height,
	}
}
