// Package agent implements the dualsensitive dispatch state machine: the
// single entry point applications embed to drive adaptive triggers, in one
// of three mutually exclusive modes fixed at Init (spec §3, §4.6).
//
//   - Solo:   triggers are applied to a locally attached controller.
//   - Server: triggers arrive over loopback UDP from a bound client and are
//     applied to a locally attached controller; the server also
//     watches the bound client's liveness and shuts itself down
//     when the client process disappears.
//   - Client: triggers are sent over loopback UDP to a server; no
//     controller is opened locally and no acknowledgement is
//     expected.
package agent

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tpetsas/dualsensitive/device"
	"github.com/tpetsas/dualsensitive/hidreport"
	"github.com/tpetsas/dualsensitive/internal/apierror"
	dslog "github.com/tpetsas/dualsensitive/internal/log"
	"github.com/tpetsas/dualsensitive/transport"
	"github.com/tpetsas/dualsensitive/trigger"
	"github.com/tpetsas/dualsensitive/wire"
)

// LivenessInterval is how often a Server agent polls its bound client's
// pid (spec §4.6, ported from the original service's 2-second poll loop).
const LivenessInterval = 2 * time.Second

// Agent is the dispatcher. Lock ordering, when more than one mutex must be
// held, is always initMu > enabledMu > clientPidMu (spec §5); no code path
// here holds more than one of those three at a time. outMu is the one lock
// taken under another: Init holds initMu while it resets OutputState.
type Agent struct {
	backend device.Backend

	initMu  sync.Mutex
	state   lifecycle
	mode    Mode
	port    uint16
	logger  *slog.Logger
	raw     dslog.RawLogger
	closers []io.Closer
	session *device.Session
	udp     *transport.Udp

	monitorCancel context.CancelFunc
	monitorDone   chan struct{}

	outMu sync.Mutex
	out   hidreport.OutputState

	enabledMu sync.Mutex
	enabled   bool

	clientPidMu sync.Mutex
	clientPid   uint32
}

// New creates an uninitialised Agent bound to backend (the injected HID
// transport). backend is ignored in Client mode, which never opens a
// device.
func New(backend device.Backend) *Agent {
	return &Agent{backend: backend, state: uninitialised, enabled: true}
}

// Init brings the Agent from Uninitialised (or Terminated) to Running in
// the given mode. The mode, once set here, cannot be changed without a
// Terminate/Init cycle (spec §3 "AgentMode is fixed at init").
func (a *Agent) Init(ctx context.Context, mode Mode, logLevel, logFile string, debug bool, port uint16) error {
	a.initMu.Lock()
	defer a.initMu.Unlock()

	if a.state == running {
		return nil
	}
	if a.state == initialising {
		return apierror.NotApplicableInMode("init", "already-initialising")
	}

	a.state = initialising
	logger, raw, closers, err := dslog.Setup(logLevel, logFile, debug)
	if err != nil {
		a.state = uninitialised
		return apierror.InitFailed(err.Error())
	}
	a.logger = logger
	a.raw = raw
	a.closers = closers
	a.mode = mode
	a.port = port

	switch mode {
	case Solo, Server:
		a.session = device.New(a.backend, logger, raw)
		if err := a.session.Connect(ctx, a.onDeviceConnected); err != nil {
			a.logger.Error("controller connect failed", "error", err)
			a.state = uninitialised
			return err
		}
	case Client:
		a.outMu.Lock()
		a.out.Normal()
		a.outMu.Unlock()
	}

	if mode == Server {
		a.udp = transport.New(logger, raw)
		if err := a.udp.StartServer(ctx, port, a.handleServerPayload); err != nil {
			a.logger.Error("server start failed", "error", err)
			a.state = uninitialised
			return err
		}
	}
	if mode == Client {
		a.udp = transport.New(logger, raw)
		if err := a.udp.StartClient(port); err != nil {
			a.logger.Error("client start failed", "error", err)
			a.state = uninitialised
			return err
		}
	}

	a.logger.Info("agent initialised", "mode", mode.String())
	a.state = running
	return nil
}

// onDeviceConnected is the Session.Connect hook: it resets the locally
// owned OutputState and pushes the default lightbar so a freshly opened
// controller starts from a known baseline (spec §4.3).
func (a *Agent) onDeviceConnected() {
	a.outMu.Lock()
	a.out = hidreport.OutputState{}
	a.out.Normal()
	a.out.Lightbar = hidreport.Lightbar{
		R: device.DefaultLightbar[0],
		G: device.DefaultLightbar[1],
		B: device.DefaultLightbar[2],
		A: device.DefaultLightbar[3],
	}
	a.outMu.Unlock()
}

// Terminate tears down whatever the current mode opened and returns the
// Agent to Terminated. Idempotent. It first writes a neutral Normal/Normal
// trigger state (spec §3, ported from the original terminate()'s unconditional
// setLeftTrigger(Normal)/setRightTrigger(Normal) pair before any mode-specific
// teardown) and only then stops the liveness monitor and closes the
// transport/session.
func (a *Agent) Terminate() error {
	a.initMu.Lock()
	if a.state == terminated || a.state == uninitialised {
		a.state = terminated
		a.initMu.Unlock()
		return nil
	}
	wasRunning := a.state == running
	a.initMu.Unlock()

	if wasRunning {
		// Reset locks initMu itself, so it must run with initMu released,
		// same as the original terminate() which never held initMutex.
		_ = a.Reset(context.Background())
	}

	a.initMu.Lock()
	defer a.initMu.Unlock()
	a.state = terminating

	a.stopLivenessMonitor()

	if a.udp != nil {
		a.udp.StopServer()
		a.udp.StopClient()
	}
	var err error
	if a.session != nil {
		err = a.session.Close()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.state = terminated
	return err
}

// IsConnected reports whether the underlying controller session is
// connected. Not meaningful in Client mode, which never opens a controller
// (spec §4.6); it logs and returns false there, matching the original
// isConnected()'s CLIENT-mode ERROR_PRINT + false.
func (a *Agent) IsConnected() bool {
	a.initMu.Lock()
	mode := a.mode
	state := a.state
	session := a.session
	logger := a.logger
	a.initMu.Unlock()

	if mode == Client {
		if logger != nil {
			logger.Error("is_connected is not applicable in client mode")
		}
		return false
	}
	if state != running {
		return false
	}
	return session != nil && session.State() == device.Connected
}

// Enable/Disable/IsEnabled gate whether SetXTrigger/SendState/Reset write
// to the device. While disabled, OutputState is still updated and Client
// mode still sends its datagrams. They never change the mode or lifecycle
// state (spec §4.6).
func (a *Agent) Enable() {
	a.enabledMu.Lock()
	a.enabled = true
	a.enabledMu.Unlock()
}

func (a *Agent) Disable() {
	a.enabledMu.Lock()
	a.enabled = false
	a.enabledMu.Unlock()
}

func (a *Agent) IsEnabled() bool {
	a.enabledMu.Lock()
	defer a.enabledMu.Unlock()
	return a.enabled
}

// SetLeftTrigger sets the left trigger's profile and extras and flushes
// the change (Solo/Server: to the device; Client: over the wire).
func (a *Agent) SetLeftTrigger(ctx context.Context, profile trigger.Profile, extras []uint8) error {
	return a.setTrigger(ctx, trigger.SideLeft, profile, extras)
}

// SetRightTrigger is the right-side counterpart of SetLeftTrigger.
func (a *Agent) SetRightTrigger(ctx context.Context, profile trigger.Profile, extras []uint8) error {
	return a.setTrigger(ctx, trigger.SideRight, profile, extras)
}

// SetLeftCustomTrigger is sugar for SetLeftTrigger(Custom, prepend(mode, extras)).
func (a *Agent) SetLeftCustomTrigger(ctx context.Context, mode trigger.Mode, extras []uint8) error {
	return a.setTrigger(ctx, trigger.SideLeft, trigger.Custom, customExtras(mode, extras))
}

// SetRightCustomTrigger is the right-side counterpart of SetLeftCustomTrigger.
func (a *Agent) SetRightCustomTrigger(ctx context.Context, mode trigger.Mode, extras []uint8) error {
	return a.setTrigger(ctx, trigger.SideRight, trigger.Custom, customExtras(mode, extras))
}

// customExtras prepends the raw Mode discriminator byte so Custom's wire
// shape (extras[0] == mode byte) is satisfied regardless of caller intent
// (spec §4 supplemented feature, ported from the original prepend helper).
func customExtras(mode trigger.Mode, extras []uint8) []uint8 {
	out := make([]uint8, 0, len(extras)+1)
	out = append(out, byte(mode))
	out = append(out, extras...)
	return out
}

// setTrigger always mutates OutputState (or sends the Client datagram);
// Enable/Disable only gates the device write inside flush, matching the
// original setTrigger(), whose CLIENT branch calls udp::send() with no
// enabled check at all and whose SOLO/SERVER branch always mutates outState
// before calling sendState(), which is the one place that checks enabled.
func (a *Agent) setTrigger(ctx context.Context, side trigger.Side, profile trigger.Profile, extras []uint8) error {
	a.initMu.Lock()
	mode := a.mode
	state := a.state
	a.initMu.Unlock()
	if state != running {
		return apierror.NotApplicableInMode("set_trigger", "not-running")
	}

	if mode == Client {
		return a.udp.Send(wire.EncodeTrigger(side, profile, extras))
	}

	a.outMu.Lock()
	setting := trigger.Setting{Profile: profile, Extras: extras}
	if side == trigger.SideLeft {
		a.out.LeftTrigger = setting
	} else {
		a.out.RightTrigger = setting
	}
	a.outMu.Unlock()
	return a.flush(ctx)
}

// SendState flushes the current OutputState, unchanged, to the device.
// Only meaningful in Solo/Server mode; the enabled gate is applied by flush.
func (a *Agent) SendState(ctx context.Context) error {
	a.initMu.Lock()
	mode := a.mode
	a.initMu.Unlock()
	if mode == Client {
		return apierror.NotApplicableInMode("send_state", mode.String())
	}
	return a.flush(ctx)
}

// Reset returns both triggers to the Normal profile and flushes/sends the
// change, same as a SetXTrigger(Normal, nil) pair on both sides.
func (a *Agent) Reset(ctx context.Context) error {
	a.initMu.Lock()
	mode := a.mode
	state := a.state
	a.initMu.Unlock()
	if state != running {
		return nil
	}

	if mode == Client {
		if err := a.udp.Send(wire.EncodeTrigger(trigger.SideLeft, trigger.Normal, nil)); err != nil {
			return err
		}
		return a.udp.Send(wire.EncodeTrigger(trigger.SideRight, trigger.Normal, nil))
	}

	a.outMu.Lock()
	a.out.Normal()
	a.outMu.Unlock()
	return a.flush(ctx)
}

// flush is the only place that consults the enabled gate before touching the
// device, mirroring the original sendState()'s enabled check.
func (a *Agent) flush(ctx context.Context) error {
	if !a.IsEnabled() {
		return nil
	}
	a.initMu.Lock()
	session := a.session
	a.initMu.Unlock()
	if session == nil {
		return apierror.NotApplicableInMode("flush", "no-session")
	}
	a.outMu.Lock()
	report := hidreport.Assemble(&a.out)
	a.outMu.Unlock()
	return session.Write(ctx, report[:])
}

// SendPidToServer sends a BIND payload carrying this process's own pid.
// Client mode only.
func (a *Agent) SendPidToServer() error {
	a.initMu.Lock()
	mode := a.mode
	udp := a.udp
	a.initMu.Unlock()
	if mode != Client {
		return apierror.NotApplicableInMode("send_pid_to_server", mode.String())
	}
	return udp.Send(wire.EncodeBind(uint32(os.Getpid())))
}

// GetClientPid returns the pid of the client currently bound to a Server
// agent, or 0 if none is bound yet or the mode is not Server.
func (a *Agent) GetClientPid() uint32 {
	a.clientPidMu.Lock()
	defer a.clientPidMu.Unlock()
	return a.clientPid
}

// handleServerPayload is the Udp.Callback for Server mode: it decodes each
// datagram and either records a new bound client (BIND) or applies a
// trigger to the local controller (TRIGGER).
func (a *Agent) handleServerPayload(payload []byte) {
	msg, err := wire.Decode(payload)
	if err != nil {
		a.logger.Warn("malformed payload", "error", err)
		return
	}
	switch m := msg.(type) {
	case *wire.Bind:
		a.clientPidMu.Lock()
		a.clientPid = m.PID
		a.clientPidMu.Unlock()
		a.logger.Info("client bound", "pid", m.PID)
		a.startLivenessMonitor()
	case *wire.Trigger:
		_ = a.setTrigger(context.Background(), m.Side, m.Profile, m.Extras)
	}
}
