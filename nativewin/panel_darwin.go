//go:build darwin && cgo

package nativewin

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

// Raise a panel above ordinary windows without activating the app,
// mirroring NSPopUpMenuWindowLevel + orderFrontRegardless.
static void fluopanel_apply_panel_level(void *nsWindow) {
	if (!nsWindow) return;
	dispatch_async(dispatch_get_main_queue(), ^{
		NSWindow *win = (__bridge NSWindow *)nsWindow;
		if (!win || ![win isKindOfClass:[NSWindow class]]) return;
		[win setLevel:NSPopUpMenuWindowLevel];
		[win setHidesOnDeactivate:NO];
		[win orderFrontRegardless];
	});
}
*/
import "C"

import "github.com/go-gl/glfw/v3.3/glfw"

// applyPanelLevel raises glw to a non-activating popup level on
// macOS. glfw's own Floating hint keeps it above normal windows but
// does not by itself suppress activation on first order-front; the
// Cocoa call below does both.
func applyPanelLevel(glw *glfw.Window) error {
	handle := glw.GetCocoaWindow()
	if handle == nil {
		return ErrPanelUnavailable
	}
	C.fluopanel_apply_panel_level(handle)
	return nil
}
