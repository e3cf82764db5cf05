package device

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tpetsas/dualsensitive/internal/apierror"
	dslog "github.com/tpetsas/dualsensitive/internal/log"
)

// Retry parameters for Connect, ported verbatim from the original
// connectToController loop (spec §3 "Session lifecycle").
const (
	MaxRetries     = 5
	RetryDelayMS   = 500
	RetryDelay     = RetryDelayMS * time.Millisecond
)

// DefaultLightbar is the color a freshly connected controller is set to.
var DefaultLightbar = [4]uint8{255, 0, 0, 128}

type lifecycle int32

const (
	Disconnected lifecycle = iota
	Connected
	Closed
)

// Session owns a single backend device handle and performs connect /
// reconnect with bounded retry, and report writes.
type Session struct {
	backend Backend
	logger  *slog.Logger
	raw     dslog.RawLogger

	mu    sync.Mutex
	state lifecycle
	handle Handle
}

// New creates a Session bound to backend. logger and raw may be nil, in
// which case logging/raw-dumping is skipped.
func New(backend Backend, logger *slog.Logger, raw dslog.RawLogger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if raw == nil {
		raw = dslog.NewRaw(nil)
	}
	return &Session{backend: backend, logger: logger, raw: raw, state: Disconnected}
}

// State reports the current lifecycle state.
func (s *Session) State() lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect enumerates devices, picks the first one, and opens it, making up
// to MaxRetries attempts in total, each preceded by a RetryDelay wait
// (including the first). onConnected, if
// non-nil, runs once after a successful open — the Agent uses it to zero
// the OutputState and apply DefaultLightbar (spec §4.3), keeping Session
// itself free of OutputState ownership.
func (s *Session) Connect(ctx context.Context, onConnected func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryDelay):
		}

		s.logger.Debug("attempting controller connection", "attempt", attempt+1)

		infos, err := s.backend.Enumerate(ctx)
		if err != nil {
			lastErr = apierror.Wrap(apierror.KindInitFailed, err)
			continue
		}
		if len(infos) == 0 {
			lastErr = apierror.NoControllersDetected()
			continue
		}

		h, err := s.backend.Open(ctx, infos[0])
		if err != nil {
			s.logger.Error("init failed", "error", err)
			lastErr = apierror.InitFailed(err.Error())
			continue
		}

		s.handle = h
		s.state = Connected
		s.logger.Info("controller connected")
		if onConnected != nil {
			onConnected()
		}
		return nil
	}
	return lastErr
}

// Reconnect tries to reconnect the existing handle without re-enumerating.
// Used when ProbeInput detects the device went away.
func (s *Session) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return apierror.InitFailed("no prior handle to reconnect")
	}
	if err := s.backend.Reconnect(ctx, s.handle); err != nil {
		s.state = Disconnected
		return apierror.Wrap(apierror.KindInitFailed, err)
	}
	s.state = Connected
	return nil
}

// ProbeInput performs a non-blocking read of the input report and reports
// whether it succeeded. This is the liveness signal used by higher layers
// (spec §4.3). A failed probe marks the session Disconnected.
func (s *Session) ProbeInput(ctx context.Context) bool {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()
	if h == nil {
		return false
	}
	_, err := s.backend.ReadInput(ctx, h)
	ok := err == nil
	if !ok {
		s.mu.Lock()
		s.state = Disconnected
		s.mu.Unlock()
	}
	return ok
}

// Write flushes a prebuilt HID output report to the device.
func (s *Session) Write(ctx context.Context, report []byte) error {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()
	if h == nil {
		return apierror.InitFailed("write with no connected device")
	}
	s.raw.Log(true, report)
	if err := s.backend.WriteOutput(ctx, h, report); err != nil {
		return apierror.Wrap(apierror.KindInitFailed, err)
	}
	return nil
}

// Close releases the backend handle. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil || s.state == Closed {
		s.state = Closed
		return nil
	}
	err := s.backend.Close(s.handle)
	s.handle = nil
	s.state = Closed
	return err
}
