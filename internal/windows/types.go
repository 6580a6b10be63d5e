//go:build windows

package windows

// RECT is the raw win32 rectangle (left/top/right/bottom).
type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Bounds describes a window's position and size in screen coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowInfo identifies a visible top-level window.
type WindowInfo struct {
	Hwnd  uintptr
	Title string
	Pid   uint32
}

// ProcessInfo identifies a running process from a Toolhelp32 snapshot.
type ProcessInfo struct {
	Pid     uint32
	ExeName string
}

// Monitor describes a physical display device.
type Monitor struct {
	Handle   uintptr
	Bounds   Bounds
	WorkArea Bounds
	Primary  bool
}

// SHELLEXECUTEINFO for the ShellExecuteEx API
type SHELLEXECUTEINFO struct {
	CbSize       uint32
	FMask        uint32
	Hwnd         uintptr
	LpVerb       *uint16
	LpFile       *uint16
	LpParameters *uint16
	LpDirectory  *uint16
	NShow        int32
	HInstApp     uintptr
	LpIDList     uintptr
	LpClass      *uint16
	HkeyClass    uintptr
	DwHotKey     uint32
	HIcon        uintptr
	HProcess     uintptr
}

type PROCESSENTRY32 struct {
	DwSize              uint32
	CntUsage            uint32
	Th32ProcessID       uint32
	Th32DefaultHeapID   uintptr
	Th32ModuleID        uint32
	CntThreads          uint32
	Th32ParentProcessID uint32
	PcPriClassBase      int32
	DwFlags             uint32
	SzExeFile           [MAX_PATH]uint16
}

// MONITORINFO for the GetMonitorInfoW API
type MONITORINFO struct {
	CbSize  uint32
	Monitor RECT
	Work    RECT
	Flags   uint32
}

func boundsFromRect(r RECT) Bounds {
	return Bounds{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}
