// Package display maintains a coalesced snapshot of the display
// topology and notifies subscribers when it changes.
package display

import (
	"errors"

	"github.com/SphereStacking/Fluopanel/geometry"
)

// ErrNoDisplays is returned by List before the first snapshot has
// arrived. Callers are expected to retry after the first
// MonitorTopologyChanged notification.
var ErrNoDisplays = errors.New("display: no monitor snapshot available yet")

// Debug toggles verbose monitor-change logging.
var Debug = false

// Monitor is a single display's logical geometry and scale. Snapshots
// list the primary first; the remaining monitors keep the order the
// Provider reported them in and are not sorted by NativeID, which the
// glfw provider leaves at zero.
type Monitor struct {
	Name        string
	Width       float64
	Height      float64
	X           float64
	Y           float64
	ScaleFactor float64
	NativeID    uint32
}

// AsGeometry projects Monitor down to the minimal view geometry.Solve
// needs.
func (m Monitor) AsGeometry() geometry.Monitor {
	return geometry.Monitor{Name: m.Name, X: m.X, Y: m.Y, W: m.Width, H: m.Height}
}

// ToGeometry converts a full snapshot to the slice type geometry.Solve
// consumes.
func ToGeometry(snapshot []Monitor) []geometry.Monitor {
	out := make([]geometry.Monitor, len(snapshot))
	for i, m := range snapshot {
		out[i] = m.AsGeometry()
	}
	return out
}
