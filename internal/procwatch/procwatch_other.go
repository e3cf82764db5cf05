//go:build !windows

package procwatch

import (
	"os"
	"syscall"
)

// alive sends the null signal to pid, the POSIX equivalent of the
// Windows OpenProcess/WaitForSingleObject liveness check.
func alive(pid uint32) bool {
	proc, err := os.FindProcess(int(pid))
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
