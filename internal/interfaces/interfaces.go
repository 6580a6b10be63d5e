// Package interfaces defines the contracts between the automation layers.
// Production code wires in the real Windows API client; tests substitute
// recording fakes.
package interfaces

import (
	"image"

	"winpilot/internal/windows"
)

// WindowManager handles window state operations
type WindowManager interface {
	CloseWindow(hwnd uintptr, title string)
	SetForeground(hwnd uintptr) bool
	Maximize(hwnd uintptr) bool
	SetBounds(hwnd uintptr, b windows.Bounds) error
	GetBounds(hwnd uintptr) (windows.Bounds, error)
	IsWindowValid(hwnd uintptr) bool
	IsResponsive(hwnd uintptr) bool
}

// ScreenManager reports display geometry
type ScreenManager interface {
	PrimarySize() (int, int)
	Monitors() []windows.Monitor
	PrimaryMonitor() windows.Monitor
}

// Capturer takes screenshots and persists them
type Capturer interface {
	CaptureRegion(r image.Rectangle) (*image.RGBA, error)
	CapturePrimary() (*image.RGBA, error)
	Save(img image.Image) (string, error)
	Dir() string
}

// TextExtractor recognizes text in a captured image
type TextExtractor interface {
	ExtractText(img image.Image) (string, float64, error)
}
