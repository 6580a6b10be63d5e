//go:build windows

package windows

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"
)

// EnumerateProcesses walks a Toolhelp32 snapshot and returns all running
// processes with their image names.
func EnumerateProcesses() ([]ProcessInfo, error) {
	snapshot, _, err := procCreateToolhelp32Snapshot.Call(TH32CS_SNAPPROCESS, 0)
	if snapshot == uintptr(syscall.InvalidHandle) {
		return nil, fmt.Errorf("failed to create process snapshot: %w", err)
	}

	defer func() {
		_, _, _ = procCloseHandle.Call(snapshot)
	}()

	var entry PROCESSENTRY32
	entry.DwSize = uint32(unsafe.Sizeof(entry))

	ret, _, _ := procProcess32First.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
	if ret == 0 {
		return nil, fmt.Errorf("failed to read first process entry")
	}

	var processes []ProcessInfo
	for {
		processes = append(processes, ProcessInfo{
			Pid:     entry.Th32ProcessID,
			ExeName: syscall.UTF16ToString(entry.SzExeFile[:]),
		})

		ret, _, _ := procProcess32Next.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
		if ret == 0 {
			break
		}
	}

	return processes, nil
}

// FindProcessesByName returns the PIDs of all processes whose image name
// matches exeName (case-insensitive, with or without the .exe suffix).
func FindProcessesByName(exeName string) ([]uint32, error) {
	processes, err := EnumerateProcesses()
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSuffix(exeName, ".exe"))

	var pids []uint32
	for _, p := range processes {
		got := strings.ToLower(strings.TrimSuffix(p.ExeName, ".exe"))
		if got == want {
			pids = append(pids, p.Pid)
		}
	}

	return pids, nil
}
