package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger hex-dumps raw HID reports and UDP datagrams, for field
// debugging of a controller that silently ignores malformed payloads
// (spec §1).
type RawLogger interface {
	// Log emits one line. out=true means data is being written to the
	// device or sent on the wire; out=false means it was received.
	Log(out bool, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log emits a single-line raw packet log with timestamp and hex dump.
func (r *rawLogger) Log(out bool, data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	dir := "<-"
	if out {
		dir = "->"
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s %d bytes: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
