package automator

import "errors"

// Sentinel errors for the automation steps. Callers distinguish failure
// classes with errors.Is; each step fails fast with no retries.
var (
	// ErrLaunch indicates the target executable is missing or the OS
	// rejected the launch.
	ErrLaunch = errors.New("application launch failed")

	// ErrWindowNotFound indicates no matching window appeared within
	// the search timeout.
	ErrWindowNotFound = errors.New("window not found")

	// ErrWindowState indicates a window handle went stale or a state
	// change (focus, maximize, move) did not take effect.
	ErrWindowState = errors.New("window state error")
)
