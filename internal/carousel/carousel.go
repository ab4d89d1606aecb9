// Package carousel tracks which forecast window is on screen.
//
// Cursor is a plain value with reducer-style methods; the owner (a TUI tab)
// keeps it and delivers the settle signal after SettleDuration. Only one
// transition may be in flight: any navigation issued while Transitioning is
// dropped, whatever input produced it.
package carousel

import "time"

// SettleDuration is how long a transition stays in flight.
const SettleDuration = 300 * time.Millisecond

// MinSwipeDistance is the horizontal travel, in cells, a drag needs to
// count as a swipe.
const MinSwipeDistance = 3

type Cursor struct {
	CurrentIndex  int
	WindowCount   int
	Transitioning bool
}

// New returns an idle cursor over n windows.
func New(n int) Cursor {
	if n < 0 {
		n = 0
	}
	return Cursor{WindowCount: n}
}

// GoTo moves to index and starts a transition. It reports whether the
// request was accepted; out-of-range or mid-transition requests leave the
// cursor untouched.
func (c *Cursor) GoTo(index int) bool {
	if c.Transitioning || index < 0 || index >= c.WindowCount {
		return false
	}
	c.CurrentIndex = index
	c.Transitioning = true
	return true
}

func (c *Cursor) Next() bool { return c.GoTo(c.CurrentIndex + 1) }
func (c *Cursor) Prev() bool { return c.GoTo(c.CurrentIndex - 1) }

// Settle ends the in-flight transition and re-clamps against the current
// window count, which may have changed under a refetch.
func (c *Cursor) Settle() {
	c.Transitioning = false
	c.clamp()
}

// Reset replaces the window count after new data arrives. A different count
// sends the index back to 0; the same count keeps it. A pending settle is
// left to fire.
func (c *Cursor) Reset(n int) {
	if n < 0 {
		n = 0
	}
	if n != c.WindowCount {
		c.CurrentIndex = 0
	}
	c.WindowCount = n
	c.clamp()
}

func (c *Cursor) clamp() {
	if c.CurrentIndex < 0 || c.CurrentIndex >= c.WindowCount {
		c.CurrentIndex = 0
	}
}

// State is a read-only snapshot of a cursor for rendering.
type State struct {
	CurrentIndex  int
	WindowCount   int
	Transitioning bool
}

func (c Cursor) State() State {
	return State{
		CurrentIndex:  c.CurrentIndex,
		WindowCount:   c.WindowCount,
		Transitioning: c.Transitioning,
	}
}

func (s State) CanPrev() bool { return s.CurrentIndex > 0 }
func (s State) CanNext() bool { return s.CurrentIndex < s.WindowCount-1 }

// CanPrev reports whether a "previous" control should be shown.
func (c Cursor) CanPrev() bool { return c.State().CanPrev() }

// CanNext reports whether a "next" control should be shown.
func (c Cursor) CanNext() bool { return c.State().CanNext() }
