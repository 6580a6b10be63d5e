// Package timeouts defines timeout and delay constants for window automation.
package timeouts

import "time"

const (
	// Application Lifecycle Timeouts

	// WindowAppearTimeout is the maximum time to wait for the target
	// application's window to appear after launching the process. Light
	// editors like Notepad show a window within a couple of seconds, but
	// we allow extra headroom for cold starts on slow disks.
	WindowAppearTimeout = 30 * time.Second

	// WindowReadyTimeout is the maximum time to wait for the target
	// window to stabilize and become responsive after it appears.
	WindowReadyTimeout = 10 * time.Second

	// DefaultStartupDelay is the pause after launching a process before
	// the first window poll, when the app config does not override it.
	DefaultStartupDelay = 3 * time.Second

	// UISettlingDelay allows time for window animations and focus events
	// to stabilize before interacting with the application.
	UISettlingDelay = 1 * time.Second

	// Windows API Interaction Delays

	// WindowMessageDelay is the delay after sending window messages
	// (WM_CLOSE, etc.) to allow the target application to process them.
	WindowMessageDelay = 500 * time.Millisecond

	// Polling and Verification Intervals

	// StatePollingInterval is the delay between checks in tight polling
	// loops when actively waiting for state changes (window appearance,
	// readiness, process discovery).
	StatePollingInterval = 100 * time.Millisecond

	// StabilityCheckInterval is the delay between consecutive
	// responsiveness checks to ensure a window is stable and ready.
	StabilityCheckInterval = 500 * time.Millisecond

	// CleanupDelay allows time for windows and processes to close
	// gracefully before verification or forced termination.
	CleanupDelay = 1 * time.Second

	// CleanupCloseTimeout bounds how long Cleanup polls for a window to
	// close after WM_CLOSE before falling back to process termination.
	CleanupCloseTimeout = 3 * time.Second
)
