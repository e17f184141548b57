// Package device defines the capability interface the engine needs
// from the external UI driver. The engine never sees screen layouts or
// element-finding heuristics; it only clicks, scrolls, navigates and
// reads text through this boundary, and treats every fault uniformly
// as a recoverable action failure.
package device

import (
	"time"
)

// Target identifies a UI element or region to the driver. Opaque to
// the engine.
type Target string

// Direction of a scroll gesture.
type Direction int

const (
	DirectionDown Direction = iota
	DirectionUp
)

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

// ActionSource is the external action boundary. Any call may return an
// action failure; callers recover at the job-retry boundary.
type ActionSource interface {
	// Click taps the target.
	Click(target Target) error

	// Scroll moves the given region one page in the given direction.
	Scroll(region Target, direction Direction) error

	// NavigateTo opens the screen for the given identity, e.g. an
	// account's profile.
	NavigateTo(identity string) error

	// ReadText returns the visible text of the target.
	ReadText(target Target) (string, error)

	// Exists reports whether the target appears within the timeout.
	Exists(target Target, timeout time.Duration) bool

	// GoBack returns to the previous screen.
	GoBack() error
}
