package popover_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/geometry"
	"github.com/SphereStacking/Fluopanel/nativewin"
	"github.com/SphereStacking/Fluopanel/popover"
	"github.com/SphereStacking/Fluopanel/winreg"
)

func newStack(mons ...display.Monitor) (*winreg.Registry, *display.Registry, *display.StaticProvider, *nativewin.OffscreenBackend) {
	if len(mons) == 0 {
		mons = []display.Monitor{{Name: "primary", Width: 1440, Height: 900}}
	}
	p := display.NewStaticProvider(mons)
	return winreg.New(), display.NewRegistry(p), p, nativewin.NewOffscreenBackend()
}

func TestOpen_BelowAnchorCentered(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	res, err := c.Open(popover.OpenArgs{
		ID:      "p1",
		Anchor:  geometry.Rect{X: 100, Y: 40, W: 24, H: 24},
		Width:   340,
		Height:  420,
		Align:   popover.AlignCenter,
		OffsetY: 8,
	})
	require.NoError(t, err)
	assert.False(t, res.Closed)
	assert.Equal(t, 828.0, res.MaxHeight)

	rec, err := reg.LookupByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Rectangle.X)
	assert.Equal(t, 72.0, rec.Rectangle.Y)
	assert.Equal(t, 340.0, rec.Rectangle.W)
}

func TestOpen_ToggleClosesExisting(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	args := popover.OpenArgs{ID: "p1", Anchor: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}, Width: 100, Height: 100, Align: popover.AlignStart}
	_, err := c.Open(args)
	require.NoError(t, err)

	res, err := c.Open(args)
	require.NoError(t, err)
	assert.True(t, res.Closed)

	_, err = reg.LookupByID("p1")
	require.ErrorIs(t, err, winreg.ErrNotFound)
}

func TestOpen_ExclusiveGroupToggle(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	var closedEvents []string
	c.Subscribe(func(id string) { closedEvents = append(closedEvents, id) })

	anchor := geometry.Rect{X: 0, Y: 0, W: 10, H: 10}
	base := popover.OpenArgs{Anchor: anchor, Width: 100, Height: 100, Align: popover.AlignStart}

	issues := base
	issues.ID = "github-issues"
	issues.Exclusive = popover.ExclusivePrefix("github")
	_, err := c.Open(issues)
	require.NoError(t, err)
	assert.Empty(t, closedEvents)

	prs := base
	prs.ID = "github-prs"
	prs.Exclusive = popover.ExclusivePrefix("github")
	res, err := c.Open(prs)
	require.NoError(t, err)
	assert.False(t, res.Closed)
	assert.Equal(t, []string{"github-issues"}, closedEvents)

	res, err = c.Open(prs)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.Equal(t, []string{"github-issues", "github-prs"}, closedEvents)
}

func TestSetSize_ClampsToMaxHeight(t *testing.T) {
	reg, monitors, _, backend := newStack(display.Monitor{Name: "primary", Width: 1440, Height: 900})
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	_, err := c.Open(popover.OpenArgs{
		ID: "p1", Anchor: geometry.Rect{X: 0, Y: 590, W: 10, H: 10},
		Width: 400, Height: 300, Align: popover.AlignStart,
	})
	require.NoError(t, err)

	require.NoError(t, c.SetSize("p1", 400, 600))
	rec, _ := reg.LookupByID("p1")
	assert.Equal(t, 300.0, rec.Rectangle.H)

	require.NoError(t, c.SetSize("p1", 400, 200))
	rec, _ = reg.LookupByID("p1")
	assert.Equal(t, 200.0, rec.Rectangle.H)
}

func TestBlur_ClosesAndEmitsOnce(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	var count int
	c.Subscribe(func(id string) {
		if id == "p1" {
			count++
		}
	})

	_, err := c.Open(popover.OpenArgs{ID: "p1", Anchor: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}, Width: 100, Height: 100, Align: popover.AlignStart})
	require.NoError(t, err)

	h := nativewin.Handle(1)
	backend.SimulateBlur(h)
	backend.SimulateBlur(h)

	assert.Equal(t, 1, count)
	_, err = reg.LookupByID("p1")
	require.ErrorIs(t, err, winreg.ErrNotFound)
}

func TestClose_IsIdempotent(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	_, err := c.Open(popover.OpenArgs{ID: "p1", Anchor: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}, Width: 100, Height: 100, Align: popover.AlignStart})
	require.NoError(t, err)

	var count int
	c.Subscribe(func(string) { count++ })

	require.NoError(t, c.Close("p1"))
	require.NoError(t, c.Close("p1"))
	assert.Equal(t, 1, count)
}

func TestCloseAll(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	for _, id := range []string{"a", "b", "c"} {
		_, err := c.Open(popover.OpenArgs{ID: id, Anchor: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}, Width: 50, Height: 50, Align: popover.AlignStart})
		require.NoError(t, err)
	}
	assert.Len(t, c.ListOpen(), 3)
	c.CloseAll()
	assert.Empty(t, c.ListOpen())
}

func TestOpen_NativePanelUnavailableLeavesNoPartialState(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")
	backend.FailNextPanel()

	_, err := c.Open(popover.OpenArgs{ID: "p1", Anchor: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}, Width: 100, Height: 100, Align: popover.AlignStart})
	require.ErrorIs(t, err, nativewin.ErrPanelUnavailable)

	_, err = reg.LookupByID("p1")
	require.ErrorIs(t, err, winreg.ErrNotFound)
	assert.Empty(t, c.ListOpen())
}

func TestAnchorMonitorRemoved_ClosesPopover(t *testing.T) {
	reg, monitors, provider, backend := newStack(
		display.Monitor{Name: "primary", Width: 1440, Height: 900},
		display.Monitor{Name: "secondary", Width: 800, Height: 600, X: 1440},
	)
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	var closedID string
	c.Subscribe(func(id string) { closedID = id })

	_, err := c.Open(popover.OpenArgs{
		ID: "p1", Anchor: geometry.Rect{X: 1500, Y: 50, W: 10, H: 10},
		Width: 100, Height: 100, Align: popover.AlignStart,
	})
	require.NoError(t, err)

	provider.SetMonitors([]display.Monitor{{Name: "primary", Width: 1440, Height: 900}})
	time.Sleep(display.CoalesceWindow + 50*time.Millisecond)

	assert.Equal(t, "p1", closedID)
	assert.Empty(t, c.ListOpen())
}

func TestOpen_AnchorAtRightEdgeClampsInsteadOfOverflowing(t *testing.T) {
	reg, monitors, _, backend := newStack()
	c := popover.New(reg, monitors, backend, "https://app.local", "/popover")

	res, err := c.Open(popover.OpenArgs{
		ID: "p1", Anchor: geometry.Rect{X: 1430, Y: 0, W: 10, H: 10},
		Width: 340, Height: 100, Align: popover.AlignStart,
	})
	require.NoError(t, err)
	assert.False(t, res.Closed)

	rec, _ := reg.LookupByID("p1")
	assert.Equal(t, 1100.0, rec.Rectangle.X)
	assert.Equal(t, 1440.0, rec.Rectangle.X+rec.Rectangle.W)
}
