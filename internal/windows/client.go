//go:build windows

package windows

import (
	"winpilot/internal/logger"
)

// Client provides methods for interacting with Windows APIs.
// It composes specialized managers for different categories of functionality.
type Client struct {
	log    logger.LoggerInterface
	Window *windowManager
	Screen *screenManager
}

// NewClient creates a new Windows API client
func NewClient(log logger.LoggerInterface) *Client {
	return &Client{
		log:    log,
		Window: newWindowManager(log),
		Screen: newScreenManager(log),
	}
}
