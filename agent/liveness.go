package agent

import (
	"context"
	"time"

	"github.com/tpetsas/dualsensitive/internal/procwatch"
)

// startLivenessMonitor begins polling the bound client's pid every
// LivenessInterval. It is safe to call repeatedly; only the first call
// after Init (or after a prior monitor stopped) spawns a goroutine. When
// the bound client disappears, the monitor resets the trigger state and
// terminates the agent (spec §4.6, ported from the original service's
// isProcessAlive poll loop).
func (a *Agent) startLivenessMonitor() {
	a.initMu.Lock()
	if a.monitorCancel != nil {
		a.initMu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.monitorCancel = cancel
	a.monitorDone = make(chan struct{})
	done := a.monitorDone
	a.initMu.Unlock()

	go a.watchLiveness(ctx, done)
}

func (a *Agent) watchLiveness(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(LivenessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pid := a.GetClientPid()
			if pid == 0 {
				continue
			}
			if procwatch.Alive(pid) {
				continue
			}
			a.logger.Info("bound client exited, shutting down", "pid", pid)
			go func() { _ = a.Terminate() }()
			return
		}
	}
}

// stopLivenessMonitor signals the monitor goroutine to exit and waits for
// it. Must be called with initMu held (Terminate takes it before calling
// this); safe when no monitor was ever started.
func (a *Agent) stopLivenessMonitor() {
	if a.monitorCancel == nil {
		return
	}
	cancel := a.monitorCancel
	done := a.monitorDone
	a.monitorCancel = nil
	a.monitorDone = nil

	cancel()
	<-done
}
