package nativewin

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwBackend creates plain OS windows via glfw, grounded on the
// teacher's driver/desktop/app.go NewWindow/window hint sequence. It
// does not configure a rendering surface; this framework manages
// window lifecycle only, content is hosted by whatever the caller
// points URL at.
type glfwBackend struct {
	mu      sync.Mutex
	next    Handle
	windows map[Handle]*glfw.Window
	onBlur  map[Handle]func()
}

// NewGLFWBackend returns the production Backend. glfw.Init must
// already have been called on the process's UI thread.
func NewGLFWBackend() Backend {
	return &glfwBackend{
		windows: make(map[Handle]*glfw.Window),
		onBlur:  make(map[Handle]func()),
	}
}

func (b *glfwBackend) Create(spec Spec) (Handle, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Decorated, boolHint(spec.Decorations))
	glfw.WindowHint(glfw.Resizable, boolHint(spec.Resizable))
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(spec.Transparent))
	glfw.WindowHint(glfw.Floating, boolHint(spec.AlwaysOnTop || spec.Panel))
	glfw.WindowHint(glfw.FocusOnShow, boolHint(!spec.Panel))

	w, h := int(spec.W), int(spec.H)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	glw, err := glfw.CreateWindow(w, h, spec.Title, nil, nil)
	if err != nil || glw == nil {
		return 0, ErrCreateFailed
	}
	glw.SetPos(int(spec.X), int(spec.Y))

	if spec.Panel {
		if err := applyPanelLevel(glw); err != nil {
			glw.Destroy()
			return 0, err
		}
	}

	b.mu.Lock()
	b.next++
	handle := b.next
	b.windows[handle] = glw
	b.mu.Unlock()

	glw.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if focused {
			return
		}
		b.mu.Lock()
		cb := b.onBlur[handle]
		b.mu.Unlock()
		if cb != nil {
			cb()
		}
	})

	return handle, nil
}

func (b *glfwBackend) window(h Handle) *glfw.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[h]
}

func (b *glfwBackend) SetPosition(h Handle, x, y float64) error {
	glw := b.window(h)
	if glw == nil {
		return ErrCreateFailed
	}
	glw.SetPos(int(x), int(y))
	return nil
}

func (b *glfwBackend) SetSize(h Handle, w, height float64) error {
	glw := b.window(h)
	if glw == nil {
		return ErrCreateFailed
	}
	glw.SetSize(int(w), int(height))
	return nil
}

func (b *glfwBackend) Show(h Handle) error {
	glw := b.window(h)
	if glw == nil {
		return ErrCreateFailed
	}
	glw.Show()
	return nil
}

func (b *glfwBackend) Hide(h Handle) error {
	glw := b.window(h)
	if glw == nil {
		return ErrCreateFailed
	}
	glw.Hide()
	return nil
}

func (b *glfwBackend) Close(h Handle) error {
	glw := b.window(h)
	if glw == nil {
		return nil
	}
	glw.Destroy()
	b.mu.Lock()
	delete(b.windows, h)
	delete(b.onBlur, h)
	b.mu.Unlock()
	return nil
}

func (b *glfwBackend) OnBlur(h Handle, cb func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb == nil {
		delete(b.onBlur, h)
		return
	}
	b.onBlur[h] = cb
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}
