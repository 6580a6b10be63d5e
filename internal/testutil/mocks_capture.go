package testutil

import (
	"image"

	"winpilot/internal/windows"
)

// MockCapturer implements interfaces.Capturer and records all calls
type MockCapturer struct {
	CaptureRegionCalls  []image.Rectangle
	CapturePrimaryCalls int
	SaveCalls           []image.Image

	CaptureResult *image.RGBA
	CaptureErr    error
	SaveResult    string
	SaveErr       error
	DirResult     string
}

func NewMockCapturer() *MockCapturer {
	return &MockCapturer{
		CaptureResult: image.NewRGBA(image.Rect(0, 0, 4, 4)),
		SaveResult:    "C:\\screenshots\\screen.png",
	}
}

func (m *MockCapturer) CaptureRegion(r image.Rectangle) (*image.RGBA, error) {
	m.CaptureRegionCalls = append(m.CaptureRegionCalls, r)
	return m.CaptureResult, m.CaptureErr
}

func (m *MockCapturer) CapturePrimary() (*image.RGBA, error) {
	m.CapturePrimaryCalls++
	return m.CaptureResult, m.CaptureErr
}

func (m *MockCapturer) Save(img image.Image) (string, error) {
	m.SaveCalls = append(m.SaveCalls, img)
	return m.SaveResult, m.SaveErr
}

func (m *MockCapturer) Dir() string {
	return m.DirResult
}

// MockTextExtractor implements interfaces.TextExtractor
type MockTextExtractor struct {
	ExtractCalls int

	TextResult       string
	ConfidenceResult float64
	ExtractErr       error
}

func NewMockTextExtractor() *MockTextExtractor {
	return &MockTextExtractor{}
}

func (m *MockTextExtractor) ExtractText(img image.Image) (string, float64, error) {
	m.ExtractCalls++
	return m.TextResult, m.ConfidenceResult, m.ExtractErr
}

// MockScreenManager implements interfaces.ScreenManager
type MockScreenManager struct {
	PrimaryResult windows.Monitor
}

func NewMockScreenManager() *MockScreenManager {
	return &MockScreenManager{
		PrimaryResult: windows.Monitor{
			Bounds:  windows.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080},
			Primary: true,
		},
	}
}

func (m *MockScreenManager) PrimarySize() (int, int) {
	return m.PrimaryResult.Bounds.Width, m.PrimaryResult.Bounds.Height
}

func (m *MockScreenManager) Monitors() []windows.Monitor {
	return []windows.Monitor{m.PrimaryResult}
}

func (m *MockScreenManager) PrimaryMonitor() windows.Monitor {
	return m.PrimaryResult
}
