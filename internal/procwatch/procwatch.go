// Package procwatch checks whether a process id is still alive, the OS
// primitive backing the Agent's server-mode liveness monitor (spec §4.6).
package procwatch

// Alive reports whether pid identifies a running process. It never
// blocks: the underlying wait, where the platform has one, is polled with
// a zero timeout.
func Alive(pid uint32) bool {
	return alive(pid)
}
