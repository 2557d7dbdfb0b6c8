//go:build !darwin || !cgo

package nativewin

import "github.com/go-gl/glfw/v3.3/glfw"

// applyPanelLevel has no non-activating panel support outside of the
// darwin+cgo build; glfw's Floating hint (set in Create) is the best
// available approximation.
func applyPanelLevel(glw *glfw.Window) error {
	return nil
}
