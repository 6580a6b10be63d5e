// Package capture grabs screen regions and saves them as PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"winpilot/internal/logger"
)

// Capturer takes screenshots of the desktop and writes them to disk
type Capturer struct {
	log logger.LoggerInterface
	dir string
}

// NewCapturer creates a capturer writing into dir. An empty dir selects
// %LOCALAPPDATA%\winpilot\screenshots.
func NewCapturer(log logger.LoggerInterface, dir string) *Capturer {
	if dir == "" {
		dir = defaultDir()
	}

	return &Capturer{log: log, dir: dir}
}

func defaultDir() string {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}

	return filepath.Join(localAppData, "winpilot", "screenshots")
}

// Dir returns the directory screenshots are saved into
func (c *Capturer) Dir() string {
	return c.dir
}

// CaptureRegion grabs the given rectangle of the virtual screen.
// A zero-area region is rejected before touching the OS.
func (c *Capturer) CaptureRegion(r image.Rectangle) (*image.RGBA, error) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("capture region has zero area: %v", r)
	}

	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %v: %w", r, err)
	}

	c.log.Debug("Captured region",
		slog.Int("width", r.Dx()),
		slog.Int("height", r.Dy()))

	return img, nil
}

// CapturePrimary grabs the primary display
func (c *Capturer) CapturePrimary() (*image.RGBA, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays")
	}

	return c.CaptureRegion(screenshot.GetDisplayBounds(0))
}

// Save encodes the image as PNG under the capturer's directory with a
// timestamped filename and returns the written path.
func (c *Capturer) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("screen-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(c.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create screenshot file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("could not encode screenshot: %w", err)
	}

	c.log.Debug("Screenshot saved", slog.String("path", path))
	return path, nil
}
