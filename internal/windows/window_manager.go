//go:build windows

package windows

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"winpilot/internal/logger"
	"winpilot/internal/timeouts"
)

// windowManager implements window state operations for a single desktop session
type windowManager struct {
	log logger.LoggerInterface
}

// newWindowManager creates a new window manager
func newWindowManager(log logger.LoggerInterface) *windowManager {
	return &windowManager{log: log}
}

// CloseWindow sends a WM_CLOSE message to the specified window
func (w *windowManager) CloseWindow(hwnd uintptr, title string) {
	w.log.Debug("Closing window", slog.String("title", title))

	ret, _, err := procPostMessageW.Call(hwnd, WM_CLOSE, 0, 0)
	if ret == 0 {
		w.log.Debug("PostMessage WM_CLOSE failed",
			slog.String("title", title),
			slog.Uint64("hwnd", uint64(hwnd)),
			slog.Any("error", err))
	}

	time.Sleep(timeouts.WindowMessageDelay)
}

// SetForeground brings a window to the foreground using AttachThreadInput technique
func (w *windowManager) SetForeground(hwnd uintptr) bool {
	// Restore window if minimized
	ret, _, _ := procShowWindow.Call(hwnd, uintptr(SW_RESTORE))
	w.log.Debug("ShowWindow(SW_RESTORE)", slog.Uint64("ret", uint64(ret)))

	// Try standard SetForegroundWindow first
	ret, _, _ = procSetForegroundWindow.Call(hwnd)
	if ret != 0 {
		w.log.Debug("SetForegroundWindow succeeded (standard)")
		return w.verifyForeground(hwnd)
	}

	w.log.Debug("Standard SetForegroundWindow failed, trying AttachThreadInput technique")

	fgHwnd, _, _ := procGetForegroundWindow.Call()
	if fgHwnd == 0 || fgHwnd == hwnd {
		w.log.Debug("No foreground window or already focused")
		return true
	}

	fgThreadID, _, _ := procGetWindowThreadProcessId.Call(fgHwnd, 0)
	targetThreadID, _, _ := procGetWindowThreadProcessId.Call(hwnd, 0)

	if fgThreadID == 0 || targetThreadID == 0 {
		w.log.Warn("Could not get thread IDs",
			slog.Uint64("fgThreadID", uint64(fgThreadID)),
			slog.Uint64("targetThreadID", uint64(targetThreadID)))
		return false
	}

	w.log.Debug("Attaching threads",
		slog.Uint64("fgThreadID", uint64(fgThreadID)),
		slog.Uint64("targetThreadID", uint64(targetThreadID)))

	// Attach our thread to the foreground window's thread
	ret, _, _ = procAttachThreadInput.Call(targetThreadID, fgThreadID, 1)
	if ret == 0 {
		w.log.Warn("AttachThreadInput failed")
		return false
	}

	// Now SetForegroundWindow should work
	ret, _, _ = procSetForegroundWindow.Call(hwnd)
	success := ret != 0

	// Detach threads
	ret, _, _ = procAttachThreadInput.Call(targetThreadID, fgThreadID, 0)
	if ret == 0 {
		w.log.Warn("Failed to detach threads")
	}

	if success {
		w.log.Debug("SetForegroundWindow succeeded (with AttachThreadInput)")
		return w.verifyForeground(hwnd)
	}

	w.log.Warn("SetForegroundWindow still failed after AttachThreadInput")
	return false
}

// verifyForeground checks if the window is now in foreground
func (w *windowManager) verifyForeground(hwnd uintptr) bool {
	time.Sleep(timeouts.WindowMessageDelay)

	fgHwnd, _, _ := procGetForegroundWindow.Call()
	if fgHwnd == hwnd {
		w.log.Debug("Window confirmed in foreground")
		return true
	}

	w.log.Warn("Different window in foreground",
		slog.Uint64("expected", uint64(hwnd)),
		slog.Uint64("got", uint64(fgHwnd)))

	return false
}

// Maximize sets the window to the maximized state and verifies it took effect
func (w *windowManager) Maximize(hwnd uintptr) bool {
	ret, _, _ := procShowWindow.Call(hwnd, uintptr(SW_MAXIMIZE))
	w.log.Debug("ShowWindow(SW_MAXIMIZE)", slog.Uint64("ret", uint64(ret)))

	time.Sleep(timeouts.WindowMessageDelay)

	if !IsZoomed(hwnd) {
		w.log.Warn("Window did not report maximized state", slog.Uint64("hwnd", uint64(hwnd)))
		return false
	}

	w.log.Debug("Window confirmed maximized")
	return true
}

// SetBounds moves and resizes a window. The OS may clamp the requested
// bounds to the screen; callers should read back GetBounds if they care.
func (w *windowManager) SetBounds(hwnd uintptr, b Bounds) error {
	ret, _, err := procSetWindowPos.Call(
		hwnd,
		0,
		uintptr(b.X),
		uintptr(b.Y),
		uintptr(b.Width),
		uintptr(b.Height),
		uintptr(SWP_NOZORDER|SWP_NOACTIVATE),
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos failed: %w", err)
	}

	time.Sleep(timeouts.WindowMessageDelay)
	return nil
}

// GetBounds returns the window's current position and size
func (w *windowManager) GetBounds(hwnd uintptr) (Bounds, error) {
	var r RECT

	ret, _, err := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Bounds{}, fmt.Errorf("GetWindowRect failed: %w", err)
	}

	return boundsFromRect(r), nil
}

// IsWindowValid checks if a window handle still refers to a valid window
func (w *windowManager) IsWindowValid(hwnd uintptr) bool {
	return IsWindow(hwnd)
}

// IsResponsive checks if a window is responding to messages
func (w *windowManager) IsResponsive(hwnd uintptr) bool {
	var result uintptr

	// WM_NULL with a 1 second timeout; a hung window never replies
	ret, _, _ := procSendMessageTimeoutW.Call(
		hwnd,
		WM_NULL,
		0,
		0,
		SMTO_ABORTIFHUNG,
		1000,
		uintptr(unsafe.Pointer(&result)),
	)

	return ret != 0
}
