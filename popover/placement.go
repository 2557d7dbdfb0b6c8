package popover

import (
	"github.com/SphereStacking/Fluopanel/geometry"
)

// Align is the horizontal alignment of a popover relative to its
// anchor.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// minMaxHeight is the positive floor enforced on a computed
// max_height so a popover anchored flush with the monitor's bottom
// edge still gets a usable, nonzero panel height.
const minMaxHeight = 40.0

// place runs the placement algorithm: locate the monitor containing
// the anchor's midpoint, derive the horizontal origin from align,
// clamp it to the monitor's interior, derive the vertical origin
// below the anchor, and derive max_height from remaining space.
func place(anchor geometry.Rect, width, height, offsetY float64, align Align, monitors []geometry.Monitor) (rect geometry.Rect, mon geometry.Monitor, maxHeight float64, err error) {
	mon, err = monitorContaining(anchor, monitors)
	if err != nil {
		return geometry.Rect{}, geometry.Monitor{}, 0, err
	}

	var x float64
	switch align {
	case AlignCenter:
		x = anchor.X + anchor.W/2 - width/2
	case AlignEnd:
		x = anchor.X + anchor.W - width
	default:
		x = anchor.X
	}
	x = geometry.Clamp(x, width, mon.X, mon.W)

	y := anchor.Y + anchor.H + offsetY

	maxHeight = mon.Y + mon.H - y
	if maxHeight < minMaxHeight {
		maxHeight = minMaxHeight
	}

	h := height
	if h > maxHeight {
		h = maxHeight
	}

	return geometry.Rect{X: x, Y: y, W: width, H: h}, mon, maxHeight, nil
}

// monitorContaining finds the monitor whose bounds contain anchor's
// midpoint, per the Open Question decision that cross-monitor spans
// are unsupported: the anchor monitor is always picked and the
// rectangle is clamped to it.
func monitorContaining(anchor geometry.Rect, monitors []geometry.Monitor) (geometry.Monitor, error) {
	if len(monitors) == 0 {
		return geometry.Monitor{}, geometry.ErrUnresolvablePosition
	}
	midX := anchor.X + anchor.W/2
	midY := anchor.Y + anchor.H/2
	for _, m := range monitors {
		if midX >= m.X && midX < m.X+m.W && midY >= m.Y && midY < m.Y+m.H {
			return m, nil
		}
	}
	return monitors[0], nil
}

// anchorMonitorStillPresent reports whether anchor's midpoint falls
// within any monitor's bounds, with no primary fallback. It is used
// to detect that a popover's anchor monitor has been removed from the
// topology while the popover is open, distinct from the best-effort
// fallback monitorContaining applies at initial placement.
func anchorMonitorStillPresent(anchor geometry.Rect, monitors []geometry.Monitor) bool {
	midX := anchor.X + anchor.W/2
	midY := anchor.Y + anchor.H/2
	for _, m := range monitors {
		if midX >= m.X && midX < m.X+m.W && midY >= m.Y && midY < m.Y+m.H {
			return true
		}
	}
	return false
}
