package cmd

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winpilot/internal/config"
	"winpilot/internal/logger"
	"winpilot/internal/testutil"
	"winpilot/internal/version"
	"winpilot/internal/windows"
)

// resetFlags resets all flags to their default values between tests
func resetFlags() {
	_ = RootCmd.PersistentFlags().Set("verbose", "false")
	_ = RootCmd.PersistentFlags().Set("logs", "false")
	_ = RootCmd.PersistentFlags().Set("config", "")
	_ = RootCmd.PersistentFlags().Set("screenshot", "true")
	_ = RootCmd.PersistentFlags().Set("no-position", "false")
}

// captureCommandOutput runs the root command with args and returns its output
func captureCommandOutput(t *testing.T, args []string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	assert.NoError(t, err)

	RootCmd.SetArgs(nil)
	return buf.String()
}

func TestRootCmd_Version(t *testing.T) {
	resetFlags()

	output := captureCommandOutput(t, []string{"--version"})
	assert.Contains(t, output, version.GetVersion(), "Should print version information")
}

func TestRootCmd_Help(t *testing.T) {
	resetFlags()

	output := captureCommandOutput(t, []string{"--help"})
	assert.Contains(t, output, "winpilot [app-name]", "Should show usage")
	assert.Contains(t, output, "Automate launching", "Should show description")
	assert.Contains(t, output, "--verbose", "Should list verbose flag")
	assert.Contains(t, output, "--screenshot", "Should list screenshot flag")
	assert.Contains(t, output, "--no-position", "Should list no-position flag")
	assert.Contains(t, output, "--logs", "Should list logs flag")
}

// TestRootCmd_Flags tests flag parsing
func TestRootCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected Flags
	}{
		{
			name:     "no flags",
			args:     []string{},
			expected: Flags{Screenshot: true},
		},
		{
			name:     "verbose flag short",
			args:     []string{"-V"},
			expected: Flags{Verbose: true, Screenshot: true},
		},
		{
			name:     "verbose flag long",
			args:     []string{"--verbose"},
			expected: Flags{Verbose: true, Screenshot: true},
		},
		{
			name:     "logs flag short",
			args:     []string{"-l"},
			expected: Flags{ShowLogs: true, Screenshot: true},
		},
		{
			name:     "screenshot disabled",
			args:     []string{"--screenshot=false"},
			expected: Flags{},
		},
		{
			name:     "no-position flag",
			args:     []string{"--no-position"},
			expected: Flags{Screenshot: true, NoPosition: true},
		},
		{
			name:     "config file short",
			args:     []string{"-c", "custom.yaml"},
			expected: Flags{Screenshot: true, ConfigFile: "custom.yaml"},
		},
		{
			name:     "multiple flags",
			args:     []string{"-V", "--no-position", "--screenshot=false"},
			expected: Flags{Verbose: true, NoPosition: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Fresh command instance to avoid shared flag state
			cmd := &cobra.Command{Use: "test"}
			cmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
			cmd.PersistentFlags().BoolP("logs", "l", false, "print log file")
			cmd.PersistentFlags().StringP("config", "c", "", "path to config file")
			cmd.PersistentFlags().BoolP("screenshot", "s", true, "capture a screenshot")
			cmd.PersistentFlags().Bool("no-position", false, "skip positioning")

			err := cmd.ParseFlags(tt.args)
			require.NoError(t, err, "Flag parsing should not error")

			assert.Equal(t, tt.expected, *NewFlagsFromCommand(cmd))
		})
	}
}

func TestHandleLogsFlag(t *testing.T) {
	resetFlags()
	defer resetFlags()

	tmpDir := t.TempDir()
	t.Setenv("LOCALAPPDATA", tmpDir)

	logPath := filepath.Join(tmpDir, "winpilot", "winpilot.log")
	testContent := "Test log content\nLine 2\nLine 3"
	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0o755))
	require.NoError(t, os.WriteFile(logPath, []byte(testContent), 0o644))

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	exitCalled := false
	var exitCode int
	mockExit := func(code int) {
		exitCalled = true
		exitCode = code
	}

	err := handleLogsFlag(&Flags{ShowLogs: true}, mockExit)
	assert.NoError(t, err)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	assert.True(t, exitCalled, "Should call exit function for --logs flag")
	assert.Equal(t, 0, exitCode, "Should exit with code 0 for --logs")
	assert.Contains(t, buf.String(), testContent, "Should print log file content to stdout")
}

func TestHandleLogsFlag_NotSet(t *testing.T) {
	err := handleLogsFlag(&Flags{}, func(int) {
		t.Fatal("exit must not be called when --logs is not set")
	})
	assert.NoError(t, err)
}

func TestTargetBounds(t *testing.T) {
	t.Parallel()

	display := windows.Bounds{X: 0, Y: 0, Width: 1366, Height: 768}

	tests := []struct {
		name string
		win  config.Window
		want windows.Bounds
	}{
		{
			name: "fits on display",
			win:  config.Window{X: 0, Y: 0, Width: 1280, Height: 720},
			want: windows.Bounds{X: 0, Y: 0, Width: 1280, Height: 720},
		},
		{
			name: "wider than display",
			win:  config.Window{X: 0, Y: 0, Width: 1920, Height: 1080},
			want: windows.Bounds{X: 0, Y: 0, Width: 1366, Height: 768},
		},
		{
			name: "offset preserved",
			win:  config.Window{X: 100, Y: 50, Width: 800, Height: 600},
			want: windows.Bounds{X: 100, Y: 50, Width: 800, Height: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, targetBounds(tt.win, display))
		})
	}
}

func TestSelectApp_ExplicitName(t *testing.T) {
	cfg := &config.Config{
		DefaultApp: "Notepad",
		Apps: []config.App{
			{Name: "Notepad", Path: config.DefaultNotepadPath, Title: "Notepad"},
			{Name: "Calculator", Path: "C:\\Windows\\System32\\calc.exe", Title: "Calculator"},
		},
	}

	app, err := selectApp(cfg, []string{"calculator"}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "Calculator", app.Name)
}

func TestSelectApp_UnknownName(t *testing.T) {
	cfg := &config.Config{
		DefaultApp: "Notepad",
		Apps:       []config.App{{Name: "Notepad", Path: config.DefaultNotepadPath}},
	}

	_, err := selectApp(cfg, []string{"word"}, logger.NewNoOpLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Notepad", "error should list available apps")
}

func TestCaptureScreen_PrimaryWhenRegionUnset(t *testing.T) {
	t.Parallel()

	capturer := testutil.NewMockCapturer()
	extractor := testutil.NewMockTextExtractor()

	err := captureScreen(logger.NewNoOpLogger(), config.Screenshot{}, capturer, extractor)
	require.NoError(t, err)

	assert.Equal(t, 1, capturer.CapturePrimaryCalls, "unset region should capture the primary display")
	assert.Empty(t, capturer.CaptureRegionCalls)
	assert.Len(t, capturer.SaveCalls, 1)
	assert.Equal(t, 1, extractor.ExtractCalls)
}

func TestCaptureScreen_ConfiguredRegion(t *testing.T) {
	t.Parallel()

	capturer := testutil.NewMockCapturer()
	shot := config.Screenshot{
		Region: config.Region{X: 10, Y: 20, Width: 300, Height: 200},
	}

	err := captureScreen(logger.NewNoOpLogger(), shot, capturer, testutil.NewMockTextExtractor())
	require.NoError(t, err)

	require.Len(t, capturer.CaptureRegionCalls, 1)
	assert.Equal(t, image.Rect(10, 20, 310, 220), capturer.CaptureRegionCalls[0])
	assert.Zero(t, capturer.CapturePrimaryCalls)
}

func TestCaptureScreen_CaptureFails(t *testing.T) {
	t.Parallel()

	capturer := testutil.NewMockCapturer()
	capturer.CaptureErr = assert.AnError

	err := captureScreen(logger.NewNoOpLogger(), config.Screenshot{}, capturer, testutil.NewMockTextExtractor())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "screenshot failed")
	assert.Empty(t, capturer.SaveCalls)
}

func TestCaptureScreen_SaveFails(t *testing.T) {
	t.Parallel()

	capturer := testutil.NewMockCapturer()
	capturer.SaveErr = assert.AnError

	err := captureScreen(logger.NewNoOpLogger(), config.Screenshot{}, capturer, testutil.NewMockTextExtractor())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not save screenshot")
}

func TestCaptureScreen_ExtractionFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	extractor := testutil.NewMockTextExtractor()
	extractor.ExtractErr = assert.AnError

	err := captureScreen(logger.NewNoOpLogger(), config.Screenshot{}, testutil.NewMockCapturer(), extractor)
	assert.NoError(t, err, "text extraction is best-effort")
}

func TestSelectApp_FallsBackToDefault(t *testing.T) {
	// Exe names chosen so no running process can match
	cfg := &config.Config{
		DefaultApp: "First",
		Apps: []config.App{
			{Name: "First", Path: "C:\\nowhere\\winpilot-test-first.exe"},
			{Name: "Second", Path: "C:\\nowhere\\winpilot-test-second.exe"},
		},
	}

	app, err := selectApp(cfg, nil, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "First", app.Name)
}
