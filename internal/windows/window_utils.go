//go:build windows

package windows

import (
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"winpilot/internal/logger"
)

// ShellExecuteEx launches a file using the Windows shell and returns the
// process ID of the new process. Using the Ex variant (rather than plain
// ShellExecute) lets us track the exact process we started.
func ShellExecuteEx(hwnd uintptr, verb, file, args, cwd string, showCmd int, log logger.LoggerInterface) (uint32, error) {
	var verbPtr, filePtr, argsPtr, cwdPtr *uint16
	var err error

	if verb != "" {
		verbPtr, err = syscall.UTF16PtrFromString(verb)
		if err != nil {
			return 0, err
		}
	}

	filePtr, err = syscall.UTF16PtrFromString(file)
	if err != nil {
		return 0, err
	}

	if args != "" {
		argsPtr, err = syscall.UTF16PtrFromString(args)
		if err != nil {
			return 0, err
		}
	}

	if cwd != "" {
		cwdPtr, err = syscall.UTF16PtrFromString(cwd)
		if err != nil {
			return 0, err
		}
	}

	sei := SHELLEXECUTEINFO{
		CbSize:       uint32(unsafe.Sizeof(SHELLEXECUTEINFO{})),
		FMask:        SEE_MASK_NOCLOSEPROCESS,
		Hwnd:         hwnd,
		LpVerb:       verbPtr,
		LpFile:       filePtr,
		LpParameters: argsPtr,
		LpDirectory:  cwdPtr,
		NShow:        int32(showCmd),
	}

	ret, _, _ := procShellExecuteEx.Call(uintptr(unsafe.Pointer(&sei)))
	if ret == 0 {
		return 0, fmt.Errorf("shell execute ex failed")
	}

	if sei.HProcess == 0 {
		return 0, fmt.Errorf("shell execute ex did not return a process handle")
	}

	pid, _, _ := procGetProcessId.Call(sei.HProcess)
	if pid == 0 {
		if ret, _, err := procCloseHandle.Call(sei.HProcess); ret == 0 {
			log.Debug("Failed to close process handle in error path", slog.Any("error", err))
		}

		return 0, fmt.Errorf("failed to get process ID from handle")
	}

	// Close the process handle - we only need the PID
	if ret, _, err := procCloseHandle.Call(sei.HProcess); ret == 0 {
		log.Debug("Failed to close process handle after getting PID", slog.Any("error", err))
	}

	return uint32(pid), nil
}

// GetWindowText retrieves the title of a window
func GetWindowText(hwnd uintptr) string {
	buf := make([]uint16, 256)

	ret, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}

	return syscall.UTF16ToString(buf)
}

// GetClassName retrieves the class name of a window
func GetClassName(hwnd uintptr) string {
	buf := make([]uint16, 256)

	ret, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}

	return syscall.UTF16ToString(buf)
}

// IsWindow checks if a window handle is still valid
func IsWindow(hwnd uintptr) bool {
	ret, _, _ := procIsWindow.Call(hwnd)
	return ret != 0
}

// IsWindowVisible checks if a window is visible
func IsWindowVisible(hwnd uintptr) bool {
	ret, _, _ := procIsWindowVisible.Call(hwnd)
	return ret != 0
}

// IsZoomed checks if a window is maximized
func IsZoomed(hwnd uintptr) bool {
	ret, _, _ := procIsZoomed.Call(hwnd)
	return ret != 0
}

// GetWindowPid retrieves the process ID that owns a window
func GetWindowPid(hwnd uintptr) uint32 {
	var pid uint32

	ret, _, _ := procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if ret == 0 {
		return 0
	}

	return pid
}

// TerminateProcess forcefully terminates a process by its PID
func TerminateProcess(pid uint32) error {
	hProcess, _, err := procOpenProcess.Call(
		uintptr(PROCESS_TERMINATE),
		uintptr(0),
		uintptr(pid),
	)

	if hProcess == 0 {
		return fmt.Errorf("failed to open process: %w", err)
	}

	defer func() {
		_, _, _ = procCloseHandle.Call(hProcess)
	}()

	ret, _, err := procTerminateProcess.Call(hProcess, uintptr(1))
	if ret == 0 {
		return fmt.Errorf("failed to terminate process: %w", err)
	}

	return nil
}
