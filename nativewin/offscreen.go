package nativewin

import "sync"

// OffscreenBackend is a Backend that creates no real native surfaces;
// it is used by the test suite and by the offscreen display.Provider
// pairing so the whole stack is exercisable without a windowing
// system. It can be configured to fail the next Create with
// ErrCreateFailed, or the next panel Create with ErrPanelUnavailable.
type OffscreenBackend struct {
	mu            sync.Mutex
	next          Handle
	windows       map[Handle]Spec
	onBlur        map[Handle]func()
	failNext      bool
	panelFailNext bool
}

// NewOffscreenBackend returns an empty OffscreenBackend.
func NewOffscreenBackend() *OffscreenBackend {
	return &OffscreenBackend{
		windows: make(map[Handle]Spec),
		onBlur:  make(map[Handle]func()),
	}
}

// FailNextCreate makes the next Create call return ErrCreateFailed.
func (b *OffscreenBackend) FailNextCreate() {
	b.mu.Lock()
	b.failNext = true
	b.mu.Unlock()
}

// FailNextPanel makes the next Create call with spec.Panel set return
// ErrPanelUnavailable.
func (b *OffscreenBackend) FailNextPanel() {
	b.mu.Lock()
	b.panelFailNext = true
	b.mu.Unlock()
}

func (b *OffscreenBackend) Create(spec Spec) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failNext {
		b.failNext = false
		return 0, ErrCreateFailed
	}
	if spec.Panel && b.panelFailNext {
		b.panelFailNext = false
		return 0, ErrPanelUnavailable
	}
	b.next++
	h := b.next
	b.windows[h] = spec
	return h, nil
}

func (b *OffscreenBackend) Spec(h Handle) (Spec, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.windows[h]
	return s, ok
}

func (b *OffscreenBackend) SetPosition(h Handle, x, y float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.windows[h]
	if !ok {
		return ErrCreateFailed
	}
	s.X, s.Y = x, y
	b.windows[h] = s
	return nil
}

func (b *OffscreenBackend) SetSize(h Handle, w, height float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.windows[h]
	if !ok {
		return ErrCreateFailed
	}
	s.W, s.H = w, height
	b.windows[h] = s
	return nil
}

func (b *OffscreenBackend) Show(h Handle) error { return b.exists(h) }
func (b *OffscreenBackend) Hide(h Handle) error { return b.exists(h) }

func (b *OffscreenBackend) Close(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, h)
	delete(b.onBlur, h)
	return nil
}

func (b *OffscreenBackend) OnBlur(h Handle, cb func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb == nil {
		delete(b.onBlur, h)
		return
	}
	b.onBlur[h] = cb
}

// SimulateBlur invokes the registered OnBlur callback for h, if any.
func (b *OffscreenBackend) SimulateBlur(h Handle) {
	b.mu.Lock()
	cb := b.onBlur[h]
	b.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (b *OffscreenBackend) exists(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[h]; !ok {
		return ErrCreateFailed
	}
	return nil
}
