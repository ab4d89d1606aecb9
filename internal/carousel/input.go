package carousel

import "strconv"

// Input is a navigation request from any source: keys, on-screen arrows,
// dot indicators or a drag.
type Input interface {
	isInput()
}

type NextInput struct{}
type PrevInput struct{}

// JumpInput selects a window directly (dot indicators).
type JumpInput struct{ Index int }

// SwipeInput is a completed drag, in cells.
type SwipeInput struct{ DX, DY int }

func (NextInput) isInput()  {}
func (PrevInput) isInput()  {}
func (JumpInput) isInput()  {}
func (SwipeInput) isInput() {}

// Apply routes an input to GoTo/Next/Prev and reports whether a transition
// started.
func (c *Cursor) Apply(in Input) bool {
	switch in := in.(type) {
	case NextInput:
		return c.Next()
	case PrevInput:
		return c.Prev()
	case JumpInput:
		return c.GoTo(in.Index)
	case SwipeInput:
		switch DetectSwipe(in.DX, in.DY, MinSwipeDistance) {
		case SwipeLeft:
			return c.Next()
		case SwipeRight:
			return c.Prev()
		}
	}
	return false
}

type Swipe int

const (
	NoSwipe Swipe = iota
	SwipeLeft
	SwipeRight
)

// DetectSwipe is one-dimensional: the horizontal travel must exceed both
// minDistance and the vertical travel. Dragging left advances.
func DetectSwipe(dx, dy, minDistance int) Swipe {
	adx, ady := abs(dx), abs(dy)
	if adx <= minDistance || adx <= ady {
		return NoSwipe
	}
	if dx < 0 {
		return SwipeLeft
	}
	return SwipeRight
}

// KeyInput maps a key name to an input. Digits 1-9 jump to that window.
func KeyInput(key string) (Input, bool) {
	switch key {
	case "right", "l":
		return NextInput{}, true
	case "left", "h":
		return PrevInput{}, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		return JumpInput{Index: n - 1}, true
	}
	return nil, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
