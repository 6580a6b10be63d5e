package testutil

import (
	"winpilot/internal/windows"
)

// MockWindowManager implements interfaces.WindowManager and records all
// calls for verification
type MockWindowManager struct {
	CloseWindowCalls   []CloseWindowCall
	SetForegroundCalls []uintptr
	MaximizeCalls      []uintptr
	SetBoundsCalls     []SetBoundsCall

	SetForegroundResult bool
	MaximizeResult      bool
	SetBoundsErr        error
	GetBoundsResult     windows.Bounds
	GetBoundsErr        error

	// IsWindowValidResults is consumed one entry per call; once exhausted
	// IsWindowValidResult applies.
	IsWindowValidResults []bool
	IsWindowValidResult  bool
	validIndex           int

	// IsResponsiveResults is consumed the same way
	IsResponsiveResults []bool
	IsResponsiveResult  bool
	responsiveIndex     int
}

type CloseWindowCall struct {
	Hwnd  uintptr
	Title string
}

type SetBoundsCall struct {
	Hwnd   uintptr
	Bounds windows.Bounds
}

func NewMockWindowManager() *MockWindowManager {
	return &MockWindowManager{
		SetForegroundResult: true,
		MaximizeResult:      true,
		IsWindowValidResult: true,
		IsResponsiveResult:  true,
	}
}

func (m *MockWindowManager) CloseWindow(hwnd uintptr, title string) {
	m.CloseWindowCalls = append(m.CloseWindowCalls, CloseWindowCall{hwnd, title})
}

func (m *MockWindowManager) SetForeground(hwnd uintptr) bool {
	m.SetForegroundCalls = append(m.SetForegroundCalls, hwnd)
	return m.SetForegroundResult
}

func (m *MockWindowManager) Maximize(hwnd uintptr) bool {
	m.MaximizeCalls = append(m.MaximizeCalls, hwnd)
	return m.MaximizeResult
}

func (m *MockWindowManager) SetBounds(hwnd uintptr, b windows.Bounds) error {
	m.SetBoundsCalls = append(m.SetBoundsCalls, SetBoundsCall{hwnd, b})
	return m.SetBoundsErr
}

func (m *MockWindowManager) GetBounds(hwnd uintptr) (windows.Bounds, error) {
	return m.GetBoundsResult, m.GetBoundsErr
}

func (m *MockWindowManager) IsWindowValid(hwnd uintptr) bool {
	if m.validIndex < len(m.IsWindowValidResults) {
		result := m.IsWindowValidResults[m.validIndex]
		m.validIndex++
		return result
	}

	return m.IsWindowValidResult
}

func (m *MockWindowManager) IsResponsive(hwnd uintptr) bool {
	if m.responsiveIndex < len(m.IsResponsiveResults) {
		result := m.IsResponsiveResults[m.responsiveIndex]
		m.responsiveIndex++
		return result
	}

	return m.IsResponsiveResult
}

// Helper methods for fluent configuration
func (m *MockWindowManager) WithSetForegroundResult(result bool) *MockWindowManager {
	m.SetForegroundResult = result
	return m
}

func (m *MockWindowManager) WithMaximizeResult(result bool) *MockWindowManager {
	m.MaximizeResult = result
	return m
}

func (m *MockWindowManager) WithGetBoundsResult(b windows.Bounds) *MockWindowManager {
	m.GetBoundsResult = b
	return m
}

func (m *MockWindowManager) WithIsWindowValidResults(results ...bool) *MockWindowManager {
	m.IsWindowValidResults = results
	return m
}

func (m *MockWindowManager) WithIsResponsiveResults(results ...bool) *MockWindowManager {
	m.IsResponsiveResults = results
	return m
}
