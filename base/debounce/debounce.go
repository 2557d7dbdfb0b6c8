// Package debounce provides a single re-armable timer slot, used to
// coalesce bursts of native notifications (monitor topology changes)
// into a single downstream call.
package debounce

import "time"

// Slot holds at most one pending timer. Arm replaces any timer already
// pending in the slot, so a burst of calls within the window collapses
// to the single call scheduled by the last Arm.
type Slot struct {
	timer *time.Timer
}

// Arm (re-)schedules f to run after d, cancelling any previously
// armed, not-yet-fired call in this slot.
func (s *Slot) Arm(d time.Duration, f func()) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, f)
}

// Stop cancels any pending call. Safe to call on a zero-value or
// already-fired Slot.
func (s *Slot) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
