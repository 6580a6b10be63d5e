package cmd

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"winpilot/internal/automator"
	"winpilot/internal/capture"
	"winpilot/internal/config"
	"winpilot/internal/interfaces"
	"winpilot/internal/logger"
	"winpilot/internal/timeouts"
	"winpilot/internal/version"
	"winpilot/internal/windows"
)

// ExecutionContext holds state needed throughout the automation sequence
// and for cleanup in signal handlers.
type ExecutionContext struct {
	targetHwnd uintptr
	targetPid  uint32
	launched   bool // we started the process, so we own its cleanup
	log        logger.LoggerInterface
	client     *automator.Client
	exitFunc   func(int) // Injectable for testing; defaults to os.Exit
}

// RootCmd is the root command for the winpilot CLI application.
var RootCmd = &cobra.Command{
	Use:          "winpilot [app-name]",
	Short:        "winpilot - Automate launching and arranging desktop applications",
	Version:      version.GetVersion(),
	Args:         cobra.MaximumNArgs(1),
	RunE:         Execute,
	SilenceUsage: true, // Don't show usage on runtime errors
}

func init() {
	// Set custom version template to show full version info
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// Add flags
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")
	RootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	RootCmd.PersistentFlags().BoolP("screenshot", "s", true, "capture a screenshot after arranging the window")
	RootCmd.PersistentFlags().Bool("no-position", false, "skip moving and resizing the window")
}

// handleLogsFlag processes the --logs flag and exits if needed
func handleLogsFlag(flags *Flags, exitFunc func(int)) error {
	if !flags.ShowLogs {
		return nil
	}

	if err := logger.PrintLogFile(nil, logger.LoggerOptions{}); err != nil {
		if os.IsNotExist(err) {
			logPath := logger.GetLogPath(logger.LoggerOptions{})
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logPath)
			exitFunc(1)
		}

		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		exitFunc(1)
	}

	exitFunc(0)
	return nil // Won't actually reach here due to exitFunc
}

// initializeLogger creates a logger and logs startup information
func initializeLogger(flags *Flags) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:  flags.Verbose,
		Compress: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// selectApp resolves which configured application to automate. An explicit
// name wins; otherwise an already-running configured app is preferred over
// the configured default.
func selectApp(cfg *config.Config, args []string, log logger.LoggerInterface) (*config.App, error) {
	if len(args) > 0 {
		return cfg.App(args[0])
	}

	if app, pid := automator.DetectRunningApp(log, cfg.Apps); app != nil {
		log.Debug("Using already-running app",
			slog.String("app", app.Name),
			slog.Uint64("pid", uint64(pid)))
		return app, nil
	}

	return cfg.App(cfg.DefaultApp)
}

// setupSignalHandlers configures console control and interrupt signal handlers.
// It captures the ExecutionContext in closures to access state for cleanup.
func setupSignalHandlers(ctx *ExecutionContext) {
	// Set up Windows console control handler to catch window close events
	_ = windows.SetConsoleCtrlHandler(func(ctrlType uint32) uintptr {
		ctx.log.Debug("Received console control event",
			slog.String("type", windows.GetCtrlTypeName(ctrlType)),
			slog.Uint64("code", uint64(ctrlType)),
		)

		cleanupOnInterrupt(ctx)
		ctx.exitFunc(130)
		return 1
	})

	// Set up signal handler for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		ctx.log.Debug("Received signal", slog.Any("signal", sig))
		ctx.log.Info("Interrupt signal received, starting cleanup")

		cleanupOnInterrupt(ctx)
		ctx.exitFunc(130)
	}()
}

// cleanupOnInterrupt closes the target app, but only when this run started
// it. An app the user already had open is left alone. A completed run also
// leaves the window open; cleanup happens on interrupt only.
func cleanupOnInterrupt(ctx *ExecutionContext) {
	if !ctx.launched || ctx.targetPid == 0 {
		ctx.log.Debug("Nothing to clean up, app was not started by us")
		return
	}

	ctx.client.Cleanup(ctx.targetHwnd, ctx.targetPid)
	ctx.log.Debug("Cleanup completed, exiting")
}

// acquireWindow finds an existing window of the target app or launches a
// new instance and waits for its window to appear.
func acquireWindow(ctx *ExecutionContext) (uintptr, uint32, error) {
	hwnd, pid := ctx.client.FindExistingWindow()
	if hwnd != 0 {
		ctx.log.Info("Reusing existing window",
			slog.Uint64("hwnd", uint64(hwnd)),
			slog.Uint64("pid", uint64(pid)))
		return hwnd, pid, nil
	}

	pid, err := ctx.client.Launch()
	if err != nil {
		return 0, 0, err
	}

	ctx.launched = true
	ctx.targetPid = pid

	hwnd, err = ctx.client.WaitForWindow(pid, timeouts.WindowAppearTimeout)
	if err != nil {
		ctx.log.Error("Window never appeared, terminating process", slog.Any("error", err))
		ctx.client.ForceCleanup(pid)
		return 0, 0, err
	}

	return hwnd, pid, nil
}

// targetBounds computes the bounds for the position step, clamping the
// configured window size to the primary display.
func targetBounds(win config.Window, display windows.Bounds) windows.Bounds {
	b := windows.Bounds{X: win.X, Y: win.Y, Width: win.Width, Height: win.Height}

	if b.Width > display.Width {
		b.Width = display.Width
	}
	if b.Height > display.Height {
		b.Height = display.Height
	}

	return b
}

// positionWindow moves the window to the configured bounds on the primary
// display and logs what the OS actually applied.
func positionWindow(ctx *ExecutionContext, hwnd uintptr, win config.Window, screen interfaces.ScreenManager) error {
	primary := screen.PrimaryMonitor()

	ctx.log.Debug("Primary monitor",
		slog.Int("width", primary.Bounds.Width),
		slog.Int("height", primary.Bounds.Height))

	bounds := targetBounds(win, primary.Bounds)

	actual, err := ctx.client.Position(hwnd, bounds)
	if err != nil {
		return err
	}

	ctx.log.Info("Window positioned",
		slog.Int("x", actual.X),
		slog.Int("y", actual.Y),
		slog.Int("width", actual.Width),
		slog.Int("height", actual.Height))

	return nil
}

// captureScreen takes a screenshot of the configured region (or the whole
// primary display), saves it, and runs text extraction over it.
func captureScreen(
	log logger.LoggerInterface,
	shot config.Screenshot,
	capturer interfaces.Capturer,
	extractor interfaces.TextExtractor,
) error {
	var img *image.RGBA
	var err error

	region := shot.Region
	if region.Width <= 0 || region.Height <= 0 {
		img, err = capturer.CapturePrimary()
	} else {
		img, err = capturer.CaptureRegion(image.Rect(
			region.X,
			region.Y,
			region.X+region.Width,
			region.Y+region.Height,
		))
	}
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	path, err := capturer.Save(img)
	if err != nil {
		return fmt.Errorf("could not save screenshot: %w", err)
	}

	log.Info("Screenshot saved", slog.String("path", path))

	text, confidence, err := extractor.ExtractText(img)
	if err != nil {
		log.Warn("Text extraction failed", slog.Any("error", err))
		return nil
	}

	log.Info("Text extraction complete",
		slog.Int("characters", len(text)),
		slog.Float64("confidence", confidence))

	return nil
}

// Execute runs the provided command with the given arguments.
func Execute(cmd *cobra.Command, args []string) error {
	flags := NewFlagsFromCommand(cmd)

	if err := handleLogsFlag(flags, os.Exit); err != nil {
		return err
	}

	log, err := initializeLogger(flags)
	if err != nil {
		return err
	}

	defer log.Close()

	log.Debug("Starting winpilot", slog.Any("args", args))
	log.Debug("Flags set",
		slog.Bool("verbose", flags.Verbose),
		slog.Bool("screenshot", flags.Screenshot),
		slog.Bool("noPosition", flags.NoPosition),
	)

	// Recover from panics and log them
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC RECOVERED",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
			fmt.Fprintf(os.Stderr, "Check log file for details\n")
		}
	}()

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		log.Error("Config load failed", slog.Any("error", err))
		return err
	}

	app, err := selectApp(cfg, args, log)
	if err != nil {
		return err
	}

	log.Info("Target application",
		slog.String("app", app.Name),
		slog.String("path", app.ResolvePath()))

	// Create execution context to hold state for signal handlers
	ctx := &ExecutionContext{
		log:      log,
		client:   automator.NewClient(log, app),
		exitFunc: os.Exit,
	}

	setupSignalHandlers(ctx)

	hwnd, pid, err := acquireWindow(ctx)
	if err != nil {
		return err
	}

	// Store handles in context for signal handlers and cleanup
	ctx.targetHwnd = hwnd
	ctx.targetPid = pid

	if !ctx.client.WaitForReady(hwnd, timeouts.WindowReadyTimeout) {
		return fmt.Errorf("window appeared but is not responding properly")
	}

	if err := ctx.client.FocusAndMaximize(hwnd); err != nil {
		return err
	}

	if !flags.NoPosition {
		screen := windows.NewClient(log).Screen
		if err := positionWindow(ctx, hwnd, cfg.Window, screen); err != nil {
			return err
		}
	}

	if flags.Screenshot {
		capturer := capture.NewCapturer(log, cfg.Screenshot.Dir)
		if err := captureScreen(log, cfg.Screenshot, capturer, capture.NewTextExtractor()); err != nil {
			return err
		}
	}

	log.Info("Automation sequence complete", slog.String("app", app.Name))
	return nil
}
