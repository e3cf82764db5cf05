//go:build windows

package procwatch

import "golang.org/x/sys/windows"

// alive ports the original service's isProcessAlive: OpenProcess(SYNCHRONIZE)
// then WaitForSingleObject with a zero timeout — WAIT_TIMEOUT means the
// process has not yet signaled (i.e. it is still running).
func alive(pid uint32) bool {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, 0)
	if err != nil {
		return false
	}
	return event == uint32(windows.WAIT_TIMEOUT)
}
