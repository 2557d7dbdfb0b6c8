package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/SphereStacking/Fluopanel/config"
	"github.com/SphereStacking/Fluopanel/coordinator"
	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/inlinewindow"
	"github.com/SphereStacking/Fluopanel/ipc"
	"github.com/SphereStacking/Fluopanel/launchctx"
	"github.com/SphereStacking/Fluopanel/nativewin"
	"github.com/SphereStacking/Fluopanel/popover"
	"github.com/SphereStacking/Fluopanel/winreg"
)

var offscreen bool

func init() {
	runCmd.Flags().BoolVar(&offscreen, "offscreen", false, "use an in-memory monitor table and no-op native backend instead of glfw")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the coordinator: own window/popover lifecycle, monitor tracking, and the external event socket",
	RunE:  runCoordinator,
}

func runCoordinator(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("fluopanelctl: loading settings: %w", err)
	}

	level := slog.LevelInfo
	if debug || settings.Debug {
		level = slog.LevelDebug
		display.Debug = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if stop, err := config.Watch(configPath, func(s config.Settings) {
		display.Debug = s.Debug
		slog.Info("fluopanelctl: settings reloaded")
	}); err == nil {
		defer stop()
	}

	if launchCtx, err := launchctx.Parse(nil, os.Getenv, os.Getenv("FLUOPANEL_LAUNCH_URL")); err == nil && launchCtx.Role != launchctx.RoleCoordinator {
		slog.Warn("fluopanelctl run always plays the coordinator role; launch context is informational only", "parsed_role", launchCtx.Role)
	}

	var provider display.Provider
	var backend nativewin.Backend
	usingGLFW := !offscreen

	if usingGLFW {
		runtime.LockOSThread()
		if err := glfw.Init(); err != nil {
			return fmt.Errorf("fluopanelctl: glfw init failed, rerun with --offscreen: %w", err)
		}
		defer glfw.Terminate()
		provider = display.NewGLFWProvider()
		backend = nativewin.NewGLFWBackend()
	} else {
		provider = display.NewStaticProvider([]display.Monitor{
			{Name: "primary", Width: 1920, Height: 1080, ScaleFactor: 1},
		})
		backend = nativewin.NewOffscreenBackend()
	}

	reg := winreg.New()
	monitors := display.NewRegistry(provider)
	inlineCtl := inlinewindow.New(reg, monitors, backend, settings.CoordinatorOrigin, settings.CoordinatorPath, inlinewindow.Config{
		Transparent: settings.DefaultWindow.Transparent,
		AlwaysOnTop: settings.DefaultWindow.AlwaysOnTop,
		Decorations: settings.DefaultWindow.Decorations,
		Resizable:   settings.DefaultWindow.Resizable,
		SkipTaskbar: settings.DefaultWindow.SkipTaskbar,
	})
	popoverCtl := popover.New(reg, monitors, backend, settings.CoordinatorOrigin, settings.CoordinatorPath)

	events := ipc.NewEventBus()
	coord := coordinator.New(launchctx.Context{Role: launchctx.RoleCoordinator}, events, nil)
	coord.ForwardMonitorChanges(monitors)
	coord.ForwardPopoverClosures(popoverCtl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("fluopanelctl: shutting down")
		cancel()
	}()

	channel := ipc.NewChannel()
	go channel.Serve(ctx, newDispatcher(coord, inlineCtl, popoverCtl, monitors))

	forwarder := ipc.NewSocketForwarder(settings.IPCSocketPath, coord.InjectExternalEvent)
	go func() {
		if err := forwarder.Serve(ctx); err != nil {
			slog.Error("fluopanelctl: ipc socket forwarder stopped", "error", err)
		}
	}()

	if usingGLFW {
		go func() {
			ticker := time.NewTicker(16 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					coord.RunOnUIThread(func() error {
						glfw.PollEvents()
						return nil
					})
				}
			}
		}()
	}

	slog.Info("fluopanelctl: coordinator running", "offscreen", offscreen, "socket", settings.IPCSocketPath)
	coord.Run(ctx)
	return nil
}

// newDispatcher builds the Channel.Serve handler that executes every
// ipc.Command against the engine's controllers. Every mutation is
// posted through coord.RunOnUIThread so it runs on the same goroutine
// that owns native window state, regardless of which goroutine
// received the command.
func newDispatcher(coord *coordinator.Orchestrator, inlineCtl *inlinewindow.Controller, popoverCtl *popover.Controller, monitors *display.Registry) func(ipc.Command) ipc.Reply {
	return func(cmd ipc.Command) ipc.Reply {
		switch cmd.Kind {
		case ipc.KindCreateInlineWindow:
			err := coord.RunOnUIThread(func() error {
				return inlineCtl.Create(cmd.ID, cmd.Position, inlinewindow.Config{
					Transparent: cmd.Window.Transparent,
					AlwaysOnTop: cmd.Window.AlwaysOnTop,
					Decorations: cmd.Window.Decorations,
					Resizable:   cmd.Window.Resizable,
					SkipTaskbar: cmd.Window.SkipTaskbar,
				}, cmd.Window.URL)
			})
			return ipc.Reply{Err: err}

		case ipc.KindUpdateWindowPos:
			err := coord.RunOnUIThread(func() error {
				return inlineCtl.UpdatePosition(cmd.ID, cmd.Position)
			})
			return ipc.Reply{Err: err}

		case ipc.KindShowWindow:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { return inlineCtl.Show(cmd.ID) })}

		case ipc.KindHideWindow:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { return inlineCtl.Hide(cmd.ID) })}

		case ipc.KindCloseWindow:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { return inlineCtl.Close(cmd.ID) })}

		case ipc.KindGetMonitors:
			mons, err := coordinator.RunOnUIThreadR(coord, func() ([]display.Monitor, error) {
				return monitors.List()
			})
			return ipc.Reply{Monitors: mons, Err: err}

		case ipc.KindOpenPopover:
			result, err := coordinator.RunOnUIThreadR(coord, func() (popover.OpenResult, error) {
				return popoverCtl.Open(popover.OpenArgs{
					ID:        cmd.Popover.ID,
					Anchor:    cmd.Popover.Anchor,
					Width:     cmd.Popover.Width,
					Height:    cmd.Popover.Height,
					Align:     popover.Align(cmd.Popover.Align),
					OffsetY:   cmd.Popover.OffsetY,
					Exclusive: parseExclusive(cmd.Popover.Exclusive),
				})
			})
			return ipc.Reply{
				Err: err,
				PopoverOpen: ipc.PopoverOpenReply{
					Label:     result.Label,
					Closed:    result.Closed,
					MaxHeight: result.MaxHeight,
				},
			}

		case ipc.KindClosePopover:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { return popoverCtl.Close(cmd.ID) })}

		case ipc.KindCloseAllPopovers:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { popoverCtl.CloseAll(); return nil })}

		case ipc.KindGetOpenPopovers:
			ids, err := coordinator.RunOnUIThreadR(coord, func() ([]string, error) {
				return popoverCtl.ListOpen(), nil
			})
			return ipc.Reply{OpenIDs: ids, Err: err}

		case ipc.KindSetWindowSize:
			return ipc.Reply{Err: coord.RunOnUIThread(func() error { return popoverCtl.SetSize(cmd.ID, cmd.Width, cmd.Height) })}

		default:
			return ipc.Reply{Err: fmt.Errorf("fluopanelctl: unknown command kind %q", cmd.Kind)}
		}
	}
}

// parseExclusive translates the wire-level exclusive string ("",
// "all", or a group prefix) into a popover.Exclusive value.
func parseExclusive(s string) popover.Exclusive {
	switch s {
	case "":
		return popover.ExclusiveNone()
	case "all":
		return popover.ExclusiveAll()
	default:
		return popover.ExclusivePrefix(s)
	}
}
