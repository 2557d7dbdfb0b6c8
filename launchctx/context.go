// Package launchctx parses the context descriptor that tells a freshly
// loaded child which role it is playing: coordinator, inline-window, or
// popover. It is the sole channel by which a child learns what to
// render, and is read once at process/surface start.
package launchctx

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
)

// Role mirrors winreg.Role without importing it, keeping launchctx a
// leaf package with no dependency on the registry.
type Role string

const (
	RoleCoordinator  Role = "coordinator"
	RoleInlineWindow Role = "inline-window"
	RolePopover      Role = "popover"
)

// Context is the parsed descriptor.
type Context struct {
	Role         Role
	ID           string
	MaxHeight    int
	HasMaxHeight bool
}

// Parse resolves the descriptor from explicit flags/env first, falling
// back to a URL query string if neither --window/--popover nor the
// FLUOPANEL_ROLE_* env vars are set. Precedence: flags/env override a
// parsed URL, so the same binary works whether launched by a shell
// script (flags/env) or loaded as webview://...?window=... (URL).
func Parse(args []string, env func(string) string, rawURL string) (Context, error) {
	if env == nil {
		env = os.Getenv
	}

	if ctx, ok, err := parseFlagsAndEnv(args, env); ok {
		return ctx, err
	}
	if rawURL != "" {
		return parseURL(rawURL)
	}
	return Context{Role: RoleCoordinator}, nil
}

func parseFlagsAndEnv(args []string, env func(string) string) (Context, bool, error) {
	fs := flag.NewFlagSet("launchctx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	window := fs.String("window", env("FLUOPANEL_ROLE_WINDOW"), "")
	popover := fs.String("popover", env("FLUOPANEL_ROLE_POPOVER"), "")
	maxHeight := fs.String("max-height", env("FLUOPANEL_ROLE_MAX_HEIGHT"), "")

	if len(args) > 0 {
		if err := fs.Parse(args); err != nil {
			return Context{}, false, err
		}
	}

	switch {
	case *window != "":
		return Context{Role: RoleInlineWindow, ID: *window}, true, nil
	case *popover != "":
		ctx := Context{Role: RolePopover, ID: *popover}
		if *maxHeight != "" {
			n, err := strconv.Atoi(*maxHeight)
			if err != nil {
				return Context{}, true, fmt.Errorf("launchctx: invalid max-height %q: %w", *maxHeight, err)
			}
			ctx.MaxHeight = n
			ctx.HasMaxHeight = true
		}
		return ctx, true, nil
	default:
		return Context{}, false, nil
	}
}

func parseURL(rawURL string) (Context, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Context{}, fmt.Errorf("launchctx: invalid launch url: %w", err)
	}
	q := u.Query()

	if id := q.Get("window"); id != "" {
		return Context{Role: RoleInlineWindow, ID: id}, nil
	}
	if id := q.Get("popover"); id != "" {
		ctx := Context{Role: RolePopover, ID: id}
		if mh := q.Get("max_height"); mh != "" {
			n, err := strconv.Atoi(mh)
			if err != nil {
				return Context{}, fmt.Errorf("launchctx: invalid max_height %q: %w", mh, err)
			}
			ctx.MaxHeight = n
			ctx.HasMaxHeight = true
		}
		return ctx, nil
	}
	return Context{Role: RoleCoordinator}, nil
}
