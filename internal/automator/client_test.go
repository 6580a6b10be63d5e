package automator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winpilot/internal/config"
	"winpilot/internal/logger"
	"winpilot/internal/testutil"
	"winpilot/internal/timeouts"
	"winpilot/internal/windows"
)

func newTestClient(app *config.App, mock *testutil.MockWindowManager) *Client {
	return &Client{
		log:         logger.NewNoOpLogger(),
		app:         app,
		window:      mock,
		launch:      func(file string) (uint32, error) { return 0, nil },
		enumWindows: func() []windows.WindowInfo { return nil },
		terminate:   func(pid uint32) error { return nil },
		sleep:       func(d time.Duration) {},
	}
}

func notepadApp() *config.App {
	return &config.App{
		Name:         "Notepad",
		Path:         "C:\\Windows\\System32\\notepad.exe",
		Title:        "Notepad",
		StartupDelay: timeouts.DefaultStartupDelay,
	}
}

func TestMatchesTitle(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"exact", "Notepad", true},
		{"substring", "Untitled - Notepad", true},
		{"case insensitive", "untitled - NOTEPAD", true},
		{"unrelated", "Calculator", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.matchesTitle(tt.title))
		})
	}
}

func TestLaunch_MissingExecutable(t *testing.T) {
	app := notepadApp()
	app.Path = "C:\\does\\not\\exist\\notepad.exe"
	t.Setenv(app.PathEnvVar(), "")

	c := newTestClient(app, testutil.NewMockWindowManager())

	_, err := c.Launch()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLaunch)
}

func TestLaunch_Success(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	exe := testutil.CreateFakeExecutable(t, dir, "notepad.exe")

	app := notepadApp()
	app.Path = exe
	t.Setenv(app.PathEnvVar(), "")

	c := newTestClient(app, testutil.NewMockWindowManager())

	var launched string
	var slept []time.Duration
	c.launch = func(file string) (uint32, error) {
		launched = file
		return 42, nil
	}
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	pid, err := c.Launch()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), pid)
	assert.Equal(t, exe, launched)
	assert.Contains(t, slept, app.StartupDelay, "startup delay must be honored")
}

func TestLaunch_ShellExecuteFails(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	exe := testutil.CreateFakeExecutable(t, dir, "notepad.exe")

	app := notepadApp()
	app.Path = exe
	t.Setenv(app.PathEnvVar(), "")

	c := newTestClient(app, testutil.NewMockWindowManager())
	c.launch = func(file string) (uint32, error) {
		return 0, assert.AnError
	}

	_, err := c.Launch()
	assert.ErrorIs(t, err, ErrLaunch)
}

func TestWaitForWindow_Found(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	calls := 0
	c.enumWindows = func() []windows.WindowInfo {
		calls++
		if calls < 3 {
			return nil
		}

		return []windows.WindowInfo{
			{Hwnd: 0x100, Title: "Calculator", Pid: 7},
			{Hwnd: 0x200, Title: "Untitled - Notepad", Pid: 42},
		}
	}

	hwnd, err := c.WaitForWindow(42, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x200), hwnd)
}

func TestWaitForWindow_FiltersByPid(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	c.enumWindows = func() []windows.WindowInfo {
		return []windows.WindowInfo{
			{Hwnd: 0x100, Title: "Untitled - Notepad", Pid: 7},
		}
	}

	_, err := c.WaitForWindow(42, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrWindowNotFound)

	// Zero pid matches on title alone
	hwnd, err := c.WaitForWindow(0, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x100), hwnd)
}

func TestWaitForWindow_Timeout(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	_, err := c.WaitForWindow(42, 20*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.Contains(t, err.Error(), "Notepad")
}

func TestFindExistingWindow(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	hwnd, pid := c.FindExistingWindow()
	assert.Zero(t, hwnd)
	assert.Zero(t, pid)

	c.enumWindows = func() []windows.WindowInfo {
		return []windows.WindowInfo{
			{Hwnd: 0x300, Title: "readme.txt - Notepad", Pid: 99},
		}
	}

	hwnd, pid = c.FindExistingWindow()
	assert.Equal(t, uintptr(0x300), hwnd)
	assert.Equal(t, uint32(99), pid)
}

func TestWaitForReady_Stable(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	c := newTestClient(notepadApp(), mock)

	assert.True(t, c.WaitForReady(0x200, time.Second))
}

func TestWaitForReady_ResetsStreak(t *testing.T) {
	mock := testutil.NewMockWindowManager().
		WithIsResponsiveResults(true, true, false, true, true, true)
	c := newTestClient(notepadApp(), mock)

	assert.True(t, c.WaitForReady(0x200, time.Second))
}

func TestWaitForReady_Timeout(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	mock.IsResponsiveResult = false
	c := newTestClient(notepadApp(), mock)

	assert.False(t, c.WaitForReady(0x200, 10*time.Millisecond))
}

func TestFocusAndMaximize(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	c := newTestClient(notepadApp(), mock)

	require.NoError(t, c.FocusAndMaximize(0x200))
	assert.Equal(t, []uintptr{0x200}, mock.SetForegroundCalls)
	assert.Equal(t, []uintptr{0x200}, mock.MaximizeCalls)
}

func TestFocusAndMaximize_StaleHandle(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	mock.IsWindowValidResult = false
	c := newTestClient(notepadApp(), mock)

	err := c.FocusAndMaximize(0x200)
	assert.ErrorIs(t, err, ErrWindowState)
	assert.Empty(t, mock.MaximizeCalls)
}

func TestFocusAndMaximize_FocusFailureIsNotFatal(t *testing.T) {
	mock := testutil.NewMockWindowManager().WithSetForegroundResult(false)
	c := newTestClient(notepadApp(), mock)

	assert.NoError(t, c.FocusAndMaximize(0x200))
	assert.Len(t, mock.MaximizeCalls, 1)
}

func TestFocusAndMaximize_MaximizeFails(t *testing.T) {
	mock := testutil.NewMockWindowManager().WithMaximizeResult(false)
	c := newTestClient(notepadApp(), mock)

	assert.ErrorIs(t, c.FocusAndMaximize(0x200), ErrWindowState)
}

func TestPosition(t *testing.T) {
	want := windows.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}
	mock := testutil.NewMockWindowManager().WithGetBoundsResult(want)
	c := newTestClient(notepadApp(), mock)

	got, err := c.Position(0x200, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.Len(t, mock.SetBoundsCalls, 1)
	assert.Equal(t, uintptr(0x200), mock.SetBoundsCalls[0].Hwnd)
	assert.Equal(t, want, mock.SetBoundsCalls[0].Bounds)
}

func TestPosition_ReportsClampedBounds(t *testing.T) {
	requested := windows.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}
	clamped := windows.Bounds{X: 0, Y: 0, Width: 1366, Height: 768}

	mock := testutil.NewMockWindowManager().WithGetBoundsResult(clamped)
	c := newTestClient(notepadApp(), mock)

	got, err := c.Position(0x200, requested)
	require.NoError(t, err)
	assert.Equal(t, clamped, got, "caller must see the bounds the OS applied")
}

func TestPosition_StaleHandle(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	mock.IsWindowValidResult = false
	c := newTestClient(notepadApp(), mock)

	_, err := c.Position(0x200, windows.Bounds{Width: 100, Height: 100})
	assert.ErrorIs(t, err, ErrWindowState)
	assert.Empty(t, mock.SetBoundsCalls)
}

func TestPosition_SetBoundsFails(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	mock.SetBoundsErr = assert.AnError
	c := newTestClient(notepadApp(), mock)

	_, err := c.Position(0x200, windows.Bounds{Width: 100, Height: 100})
	assert.ErrorIs(t, err, ErrWindowState)
}

func TestCleanup_Graceful(t *testing.T) {
	// Valid for the initial check, gone after WM_CLOSE
	mock := testutil.NewMockWindowManager().WithIsWindowValidResults(true, false)
	c := newTestClient(notepadApp(), mock)

	terminated := false
	c.terminate = func(pid uint32) error {
		terminated = true
		return nil
	}

	c.Cleanup(0x200, 42)

	require.Len(t, mock.CloseWindowCalls, 1)
	assert.Equal(t, uintptr(0x200), mock.CloseWindowCalls[0].Hwnd)
	assert.False(t, terminated, "graceful close must not terminate the process")
}

func TestCleanup_NoWindowFallsBackToTerminate(t *testing.T) {
	mock := testutil.NewMockWindowManager()
	c := newTestClient(notepadApp(), mock)

	var terminatedPid uint32
	c.terminate = func(pid uint32) error {
		terminatedPid = pid
		return nil
	}

	c.Cleanup(0, 42)

	assert.Empty(t, mock.CloseWindowCalls)
	assert.Equal(t, uint32(42), terminatedPid)
}

func TestDetectRunningApp(t *testing.T) {
	apps := []config.App{
		{Name: "Notepad", Path: "C:\\Windows\\System32\\notepad.exe"},
		{Name: "Calculator", Path: "C:\\Windows\\System32\\calc.exe"},
	}

	findPids := func(exeName string) ([]uint32, error) {
		if exeName == "calc.exe" {
			return []uint32{314, 315}, nil
		}
		return nil, nil
	}

	app, pid := detectRunningAppWithDeps(logger.NewNoOpLogger(), apps, findPids)
	require.NotNil(t, app)
	assert.Equal(t, "Calculator", app.Name)
	assert.Equal(t, uint32(314), pid, "should report the first matching PID")
}

func TestDetectRunningApp_NoneRunning(t *testing.T) {
	apps := []config.App{
		{Name: "Notepad", Path: "C:\\Windows\\System32\\notepad.exe"},
	}

	findPids := func(exeName string) ([]uint32, error) { return nil, nil }

	app, pid := detectRunningAppWithDeps(logger.NewNoOpLogger(), apps, findPids)
	assert.Nil(t, app)
	assert.Zero(t, pid)
}

func TestDetectRunningApp_LookupFailureSkipsApp(t *testing.T) {
	apps := []config.App{
		{Name: "Notepad", Path: "C:\\Windows\\System32\\notepad.exe"},
		{Name: "Calculator", Path: "C:\\Windows\\System32\\calc.exe"},
	}

	findPids := func(exeName string) ([]uint32, error) {
		if exeName == "notepad.exe" {
			return nil, assert.AnError
		}
		return []uint32{7}, nil
	}

	app, pid := detectRunningAppWithDeps(logger.NewNoOpLogger(), apps, findPids)
	require.NotNil(t, app, "a failed lookup must not abort the scan")
	assert.Equal(t, "Calculator", app.Name)
	assert.Equal(t, uint32(7), pid)
}

func TestForceCleanup(t *testing.T) {
	c := newTestClient(notepadApp(), testutil.NewMockWindowManager())

	var terminatedPid uint32
	c.terminate = func(pid uint32) error {
		terminatedPid = pid
		return nil
	}

	c.ForceCleanup(42)
	assert.Equal(t, uint32(42), terminatedPid)
}
