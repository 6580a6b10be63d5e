//go:build windows

package windows

import (
	"log/slog"
	"syscall"
	"unsafe"

	"winpilot/internal/logger"
)

// screenManager reports display geometry for the current session
type screenManager struct {
	log logger.LoggerInterface
}

// newScreenManager creates a new screen manager
func newScreenManager(log logger.LoggerInterface) *screenManager {
	return &screenManager{log: log}
}

// PrimarySize returns the width and height of the primary display in pixels
func (s *screenManager) PrimarySize() (int, int) {
	w, _, _ := procGetSystemMetrics.Call(SM_CXSCREEN)
	h, _, _ := procGetSystemMetrics.Call(SM_CYSCREEN)

	s.log.Debug("Primary display size",
		slog.Int("width", int(w)),
		slog.Int("height", int(h)))

	return int(w), int(h)
}

// Monitors returns all active display monitors with their bounds and
// work areas. The primary monitor carries the Primary flag.
func (s *screenManager) Monitors() []Monitor {
	var monitors []Monitor

	cb := syscall.NewCallback(func(hMonitor uintptr, hdcMonitor uintptr, lprcMonitor uintptr, dwData uintptr) uintptr {
		var mi MONITORINFO
		mi.CbSize = uint32(unsafe.Sizeof(mi))

		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			monitors = append(monitors, Monitor{
				Handle:   hMonitor,
				Bounds:   boundsFromRect(mi.Monitor),
				WorkArea: boundsFromRect(mi.Work),
				Primary:  (mi.Flags & MONITORINFOF_PRIMARY) != 0,
			})
		}
		return 1
	})

	ret, _, _ := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if ret == 0 {
		s.log.Warn("EnumDisplayMonitors failed")
		return nil
	}

	return monitors
}

// PrimaryMonitor returns the primary monitor, falling back to
// GetSystemMetrics when enumeration yields nothing.
func (s *screenManager) PrimaryMonitor() Monitor {
	for _, m := range s.Monitors() {
		if m.Primary {
			return m
		}
	}

	w, h := s.PrimarySize()
	return Monitor{
		Bounds:  Bounds{X: 0, Y: 0, Width: w, Height: h},
		Primary: true,
	}
}
