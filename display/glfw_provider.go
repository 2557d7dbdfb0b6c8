package display

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwProvider lists displays via glfw.GetMonitors, grounded on the
// teacher's driver/desktop/screen.go GetScreens/MonitorChange. List
// moves glfw's primary monitor to the front, matching the registry's
// primary-first ordering.
type glfwProvider struct{}

// NewGLFWProvider returns the production Provider. glfw.Init must
// already have been called on the process's UI thread before any
// method here is used.
func NewGLFWProvider() Provider {
	return glfwProvider{}
}

func (glfwProvider) List() ([]Monitor, error) {
	mons := glfw.GetMonitors()
	if len(mons) == 0 {
		return nil, fmt.Errorf("display: glfw reported zero monitors")
	}
	primary := glfw.GetPrimaryMonitor()

	out := make([]Monitor, 0, len(mons))
	for _, m := range mons {
		vm := m.GetVideoMode()
		if vm == nil || vm.Width == 0 || vm.Height == 0 {
			if Debug {
				slog.Debug("display: glfw monitor reported no video mode, skipping", "name", m.GetName())
			}
			continue
		}
		x, y := m.GetPos()
		scale, _ := m.GetContentScale()
		if scale <= 0 {
			scale = 1
		}
		out = append(out, Monitor{
			Name:        m.GetName(),
			Width:       float64(vm.Width),
			Height:      float64(vm.Height),
			X:           float64(x),
			Y:           float64(y),
			ScaleFactor: float64(scale),
		})
	}

	// glfw.GetMonitors doesn't guarantee primary-first in all versions;
	// make the invariant explicit rather than relying on driver order.
	for i, m := range out {
		if i == 0 {
			continue
		}
		if primary != nil && m.Name == primary.GetName() {
			out[0], out[i] = out[i], out[0]
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("display: no usable glfw monitors")
	}
	return out, nil
}

func (glfwProvider) Watch(changed func()) {
	glfw.SetMonitorCallback(func(_ *glfw.Monitor, _ glfw.PeripheralEvent) {
		changed()
	})
}
