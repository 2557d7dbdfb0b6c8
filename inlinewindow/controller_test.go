package inlinewindow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/geometry"
	"github.com/SphereStacking/Fluopanel/inlinewindow"
	"github.com/SphereStacking/Fluopanel/nativewin"
	"github.com/SphereStacking/Fluopanel/winreg"
)

func ptr(f float64) *float64 { return &f }

func newStack() (*winreg.Registry, *display.Registry, *display.StaticProvider, *nativewin.OffscreenBackend) {
	p := display.NewStaticProvider([]display.Monitor{{Name: "primary", Width: 1440, Height: 900}})
	return winreg.New(), display.NewRegistry(p), p, nativewin.NewOffscreenBackend()
}

func TestController_CreateThenLookup(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})

	pos := geometry.Position{Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	require.NoError(t, c.Create("bar-1", pos, inlinewindow.Config{Decorations: true}, ""))

	rec, err := reg.LookupByID("bar-1")
	require.NoError(t, err)
	assert.Equal(t, winreg.StatusVisible, rec.Status)
	assert.Equal(t, 1440.0, rec.Rectangle.W)
}

func TestController_CreateRollsBackOnNativeFailure(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})
	backend.FailNextCreate()

	pos := geometry.Position{Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	err := c.Create("bar-1", pos, inlinewindow.Config{}, "")
	require.ErrorIs(t, err, nativewin.ErrCreateFailed)

	_, err = reg.LookupByID("bar-1")
	require.ErrorIs(t, err, winreg.ErrNotFound)
}

func TestController_CreateFailsOnUnresolvablePosition(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})

	pos := geometry.Position{Left: ptr(0), Right: ptr(0), Width: ptr(100)}
	err := c.Create("bar-1", pos, inlinewindow.Config{}, "")
	require.ErrorIs(t, err, geometry.ErrUnresolvablePosition)

	_, err = reg.LookupByID("bar-1")
	require.ErrorIs(t, err, winreg.ErrNotFound)
}

func TestController_ShowHideClose(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})
	pos := geometry.Position{Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	require.NoError(t, c.Create("bar-1", pos, inlinewindow.Config{}, ""))

	require.NoError(t, c.Hide("bar-1"))
	rec, _ := reg.LookupByID("bar-1")
	assert.Equal(t, winreg.StatusHidden, rec.Status)

	require.NoError(t, c.Show("bar-1"))
	rec, _ = reg.LookupByID("bar-1")
	assert.Equal(t, winreg.StatusVisible, rec.Status)

	require.NoError(t, c.Close("bar-1"))
	_, err := reg.LookupByID("bar-1")
	require.ErrorIs(t, err, winreg.ErrNotFound)

	assert.ErrorIs(t, c.Close("bar-1"), inlinewindow.ErrNotFound)
}

func TestController_RepositionsOnTopologyChange(t *testing.T) {
	reg, monitors, provider, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})
	pos := geometry.Position{Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	require.NoError(t, c.Create("bar-1", pos, inlinewindow.Config{}, ""))

	provider.SetMonitors([]display.Monitor{{Name: "primary", Width: 1920, Height: 1080}})
	time.Sleep(display.CoalesceWindow + 50*time.Millisecond)

	rec, err := reg.LookupByID("bar-1")
	require.NoError(t, err)
	assert.Equal(t, 1920.0, rec.Rectangle.W)
}

func TestController_NamedMonitorDisappearsFallsBackToPrimary(t *testing.T) {
	p := display.NewStaticProvider([]display.Monitor{
		{Name: "primary", Width: 1440, Height: 900},
		{Name: "secondary", Width: 1920, Height: 1080, X: 1440},
	})
	reg := winreg.New()
	monitors := display.NewRegistry(p)
	backend := nativewin.NewOffscreenBackend()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})

	pos := geometry.Position{Monitor: "secondary", Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	require.NoError(t, c.Create("bar-1", pos, inlinewindow.Config{}, ""))

	p.SetMonitors([]display.Monitor{{Name: "primary", Width: 1440, Height: 900}})
	time.Sleep(display.CoalesceWindow + 50*time.Millisecond)

	rec, err := reg.LookupByID("bar-1")
	require.NoError(t, err)
	assert.Equal(t, 1440.0, rec.Rectangle.W)
	assert.Equal(t, 0.0, rec.Rectangle.X)
}

func TestController_DefaultURL(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := inlinewindow.New(reg, monitors, backend, "https://app.local", "/bar", inlinewindow.Config{})
	pos := geometry.Position{Top: ptr(0), Left: ptr(0), Right: ptr(0), Height: ptr(40)}
	require.NoError(t, c.Create("bar-1", pos, inlinewindow.Config{}, ""))

	spec, ok := backend.Spec(1)
	require.True(t, ok)
	assert.Equal(t, "https://app.local/bar?window=bar-1", spec.URL)
}
