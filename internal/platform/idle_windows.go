//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

type windowsSensor struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newSessionSensor() sessionSensor {
	return &windowsSensor{}
}

func (sensor *windowsSensor) idleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	user32 := syscall.NewLazyDLL("user32.dll")
	getLastInputInfo := user32.NewProc("GetLastInputInfo")
	result, _, err := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err != nil {
			return 0, fmt.Errorf("get last input info: %w", err)
		}
		return 0, fmt.Errorf("get last input info: unknown error")
	}

	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	getTickCount64 := kernel32.NewProc("GetTickCount64")
	tickResult, _, tickErr := getTickCount64.Call()
	if tickResult == 0 && tickErr != nil {
		return 0, fmt.Errorf("get tick count: %w", tickErr)
	}

	idleMillis := uint64(tickResult) - uint64(info.dwTime)
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// locked uses the input-desktop heuristic: while the secure/lock desktop is
// active, OpenInputDesktop fails for normal processes.
func (sensor *windowsSensor) locked() (bool, error) {
	user32 := syscall.NewLazyDLL("user32.dll")
	openInputDesktop := user32.NewProc("OpenInputDesktop")
	closeDesktop := user32.NewProc("CloseDesktop")

	const desktopSwitchDesktop = 0x0100
	handle, _, _ := openInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if handle == 0 {
		return true, nil
	}
	_, _, _ = closeDesktop.Call(handle)
	return false, nil
}
