// Package automator drives a target application through the automation
// sequence: launch, locate its window, focus, maximize, position, and
// finally clean up. Each step fails fast; there are no retries.
package automator

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"winpilot/internal/config"
	"winpilot/internal/interfaces"
	"winpilot/internal/logger"
	"winpilot/internal/timeouts"
	"winpilot/internal/windows"
)

// Client automates a single target application
type Client struct {
	log    logger.LoggerInterface
	app    *config.App
	window interfaces.WindowManager

	// OS entry points, swappable in tests
	launch      func(file string) (uint32, error)
	enumWindows func() []windows.WindowInfo
	terminate   func(pid uint32) error
	sleep       func(d time.Duration)
}

// NewClient creates an automator for the given application
func NewClient(log logger.LoggerInterface, app *config.App) *Client {
	win := windows.NewClient(log)

	return &Client{
		log:    log,
		app:    app,
		window: win.Window,
		launch: func(file string) (uint32, error) {
			return windows.ShellExecuteEx(0, "open", file, "", "", windows.SW_SHOWNORMAL, log)
		},
		enumWindows: windows.EnumerateWindows,
		terminate:   windows.TerminateProcess,
		sleep:       time.Sleep,
	}
}

// App returns the application this client automates
func (c *Client) App() *config.App {
	return c.app
}

// matchesTitle reports whether a window title identifies the target app.
// Matching is a case-insensitive substring check; empty titles never match.
func (c *Client) matchesTitle(title string) bool {
	if title == "" {
		return false
	}

	return strings.Contains(strings.ToLower(title), strings.ToLower(c.app.Title))
}

// FindExistingWindow looks for an already-open window of the target app.
// It returns the window handle and owning PID, or zero values when none
// is open.
func (c *Client) FindExistingWindow() (uintptr, uint32) {
	for _, w := range c.enumWindows() {
		if c.matchesTitle(w.Title) {
			c.log.Debug("Found existing window",
				slog.String("title", w.Title),
				slog.Uint64("hwnd", uint64(w.Hwnd)),
				slog.Uint64("pid", uint64(w.Pid)))

			return w.Hwnd, w.Pid
		}
	}

	return 0, 0
}

// Launch starts the target application and returns its process ID.
// It waits the app's configured startup delay before returning so the
// first window poll is not wasted on a process that has barely started.
func (c *Client) Launch() (uint32, error) {
	if err := c.app.ValidateInstallation(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	path := c.app.ResolvePath()
	c.log.Info("Launching application",
		slog.String("app", c.app.Name),
		slog.String("path", path))

	pid, err := c.launch(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLaunch, path, err)
	}

	c.log.Info("Application started",
		slog.String("app", c.app.Name),
		slog.Uint64("pid", uint64(pid)))

	c.sleep(c.app.StartupDelay)

	return pid, nil
}

// WaitForWindow polls for the target app's window until it appears or the
// timeout elapses. When pid is non-zero only windows owned by that process
// match; a zero pid matches on title alone.
func (c *Client) WaitForWindow(pid uint32, timeout time.Duration) (uintptr, error) {
	c.log.Debug("Waiting for window",
		slog.String("title", c.app.Title),
		slog.Uint64("pid", uint64(pid)),
		slog.Duration("timeout", timeout))

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if hwnd := c.findWindow(pid); hwnd != 0 {
			return hwnd, nil
		}

		c.sleep(timeouts.StatePollingInterval)
	}

	// One final check; the window may have appeared during the last sleep
	if hwnd := c.findWindow(pid); hwnd != 0 {
		return hwnd, nil
	}

	return 0, fmt.Errorf("%w: no window matching %q appeared within %s",
		ErrWindowNotFound, c.app.Title, timeout)
}

func (c *Client) findWindow(pid uint32) uintptr {
	for _, w := range c.enumWindows() {
		if pid != 0 && w.Pid != pid {
			continue
		}

		if c.matchesTitle(w.Title) {
			c.log.Info("Window found",
				slog.String("title", w.Title),
				slog.Uint64("hwnd", uint64(w.Hwnd)),
				slog.Uint64("pid", uint64(w.Pid)))

			return w.Hwnd
		}
	}

	return 0
}

// WaitForReady waits until the window answers messages consistently.
// Three consecutive positive responsiveness checks count as ready; a
// single failed check resets the streak. Returns false on timeout.
func (c *Client) WaitForReady(hwnd uintptr, timeout time.Duration) bool {
	c.log.Debug("Waiting for window to become responsive",
		slog.Uint64("hwnd", uint64(hwnd)),
		slog.Duration("timeout", timeout))

	const requiredStreak = 3

	deadline := time.Now().Add(timeout)
	streak := 0

	for time.Now().Before(deadline) {
		if c.window.IsResponsive(hwnd) {
			streak++
			if streak >= requiredStreak {
				c.log.Debug("Window is responsive and stable")
				c.sleep(timeouts.UISettlingDelay)
				return true
			}
		} else {
			streak = 0
		}

		c.sleep(timeouts.StabilityCheckInterval)
	}

	c.log.Warn("Window did not stabilize within timeout",
		slog.Uint64("hwnd", uint64(hwnd)),
		slog.Duration("timeout", timeout))

	return false
}

// FocusAndMaximize brings the window to the foreground and maximizes it.
// Focus failure is logged but not fatal; the OS restricts foreground
// changes from background processes. A failed maximize is an error.
func (c *Client) FocusAndMaximize(hwnd uintptr) error {
	if !c.window.IsWindowValid(hwnd) {
		return fmt.Errorf("%w: window handle %#x is no longer valid", ErrWindowState, hwnd)
	}

	if !c.window.SetForeground(hwnd) {
		c.log.Warn("Could not bring window to foreground, continuing",
			slog.Uint64("hwnd", uint64(hwnd)))
	}

	if !c.window.Maximize(hwnd) {
		return fmt.Errorf("%w: window %#x did not maximize", ErrWindowState, hwnd)
	}

	return nil
}

// Position moves and resizes the window to the requested bounds and
// returns the bounds the window actually ended up with. The OS may clamp
// the request to the display; a mismatch is logged, not an error.
func (c *Client) Position(hwnd uintptr, b windows.Bounds) (windows.Bounds, error) {
	if !c.window.IsWindowValid(hwnd) {
		return windows.Bounds{}, fmt.Errorf("%w: window handle %#x is no longer valid", ErrWindowState, hwnd)
	}

	c.log.Info("Positioning window",
		slog.Int("x", b.X),
		slog.Int("y", b.Y),
		slog.Int("width", b.Width),
		slog.Int("height", b.Height))

	if err := c.window.SetBounds(hwnd, b); err != nil {
		return windows.Bounds{}, fmt.Errorf("%w: %v", ErrWindowState, err)
	}

	actual, err := c.window.GetBounds(hwnd)
	if err != nil {
		c.log.Warn("Could not read back window bounds", slog.Any("error", err))
		return b, nil
	}

	if actual != b {
		c.log.Info("Window bounds adjusted by the OS",
			slog.Int("x", actual.X),
			slog.Int("y", actual.Y),
			slog.Int("width", actual.Width),
			slog.Int("height", actual.Height))
	}

	return actual, nil
}

// Cleanup closes the window gracefully and falls back to terminating the
// process when the window refuses to go away.
func (c *Client) Cleanup(hwnd uintptr, pid uint32) {
	if hwnd != 0 && c.window.IsWindowValid(hwnd) {
		c.window.CloseWindow(hwnd, c.app.Title)

		deadline := time.Now().Add(timeouts.CleanupCloseTimeout)
		for time.Now().Before(deadline) {
			if !c.window.IsWindowValid(hwnd) {
				c.log.Debug("Window closed gracefully")
				return
			}

			c.sleep(timeouts.StatePollingInterval)
		}

		c.log.Warn("Window did not close gracefully",
			slog.Uint64("hwnd", uint64(hwnd)))
	}

	if pid != 0 {
		c.ForceCleanup(pid)
	}
}

// ForceCleanup terminates the target process without ceremony
func (c *Client) ForceCleanup(pid uint32) {
	c.log.Debug("Terminating process", slog.Uint64("pid", uint64(pid)))

	if err := c.terminate(pid); err != nil {
		c.log.Warn("Failed to terminate process",
			slog.Uint64("pid", uint64(pid)),
			slog.Any("error", err))
		return
	}

	c.sleep(timeouts.CleanupDelay)
	c.log.Info("Process terminated", slog.Uint64("pid", uint64(pid)))
}

// DetectRunningApp scans running processes for any of the configured
// applications and returns the first match with one of its PIDs.
func DetectRunningApp(log logger.LoggerInterface, apps []config.App) (*config.App, uint32) {
	return detectRunningAppWithDeps(log, apps, windows.FindProcessesByName)
}

// detectRunningAppWithDeps is the testable version with an injected
// process lookup
func detectRunningAppWithDeps(
	log logger.LoggerInterface,
	apps []config.App,
	findPids func(exeName string) ([]uint32, error),
) (*config.App, uint32) {
	for i := range apps {
		pids, err := findPids(apps[i].ExeName())
		if err != nil {
			log.Debug("Process scan failed",
				slog.String("app", apps[i].Name),
				slog.Any("error", err))
			continue
		}

		if len(pids) > 0 {
			log.Info("Detected running application",
				slog.String("app", apps[i].Name),
				slog.Uint64("pid", uint64(pids[0])))

			return &apps[i], pids[0]
		}
	}

	return nil, 0
}
