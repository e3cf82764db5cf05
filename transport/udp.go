// Package transport implements the loopback UDP socket dualsensitive uses
// to carry BIND/TRIGGER payloads between a client and its server (spec
// §4.5). It never authenticates peers and provides no retransmission or
// ordering guarantees beyond UDP's own.
package transport

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/tpetsas/dualsensitive/internal/apierror"
	dslog "github.com/tpetsas/dualsensitive/internal/log"
	"github.com/tpetsas/dualsensitive/wire"
)

// Callback is invoked once per received datagram, payload bytes only.
type Callback func(payload []byte)

// Udp is a bound UDP socket with a cancellable receive loop (server side)
// and/or a cached loopback destination (client side). Both roles can be
// used independently; the Agent only ever uses one per instance.
type Udp struct {
	logger *slog.Logger
	raw    dslog.RawLogger

	mu         sync.Mutex
	serverConn *net.UDPConn
	cancel     context.CancelFunc
	done       chan struct{}

	clientConn *net.UDPConn
	clientAddr *net.UDPAddr
}

// New creates an idle transport. logger/raw may be nil.
func New(logger *slog.Logger, raw dslog.RawLogger) *Udp {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = dslog.NewRaw(nil)
	}
	return &Udp{logger: logger, raw: raw}
}

// StartServer binds a UDP socket to 127.0.0.1:port and spawns a dedicated
// receiver goroutine that invokes callback for every datagram. Calling it
// while already running returns AlreadyRunning.
func (u *Udp) StartServer(ctx context.Context, port uint16, callback Callback) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.serverConn != nil {
		return apierror.Transport(apierror.TransportAlreadyRunning, "server already running")
	}
	if callback == nil {
		return apierror.Transport(apierror.TransportCallbackMissing, "no callback provided")
	}

	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return apierror.Transport(apierror.TransportBind, err.Error())
	}

	runCtx, cancel := context.WithCancel(ctx)
	u.serverConn = conn
	u.cancel = cancel
	u.done = make(chan struct{})

	go u.receiveLoop(runCtx, conn, callback)
	return nil
}

func (u *Udp) receiveLoop(ctx context.Context, conn *net.UDPConn, callback Callback) {
	defer close(u.done)

	buf := make([]byte, wire.MaxPayloadSize)
	go func() {
		<-ctx.Done()
		// Force the blocked ReadFromUDP to wake up promptly rather than
		// busy-polling (spec §4.5 cancellation contract).
		_ = conn.SetReadDeadline(time.Now())
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			u.logger.Debug("udp receive error", "error", err)
			continue
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		u.raw.Log(false, payload)
		callback(payload)
	}
}

// StartClient creates an unconnected client socket and caches the loopback
// destination for Send.
func (u *Udp) StartClient(port uint16) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.clientConn != nil {
		return apierror.Transport(apierror.TransportAlreadyRunning, "client already running")
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		return apierror.Transport(apierror.TransportSocketCreate, err.Error())
	}
	u.clientConn = conn
	u.clientAddr = &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(port)}
	return nil
}

// Send delivers payload to the destination cached by StartClient.
func (u *Udp) Send(payload []byte) error {
	u.mu.Lock()
	conn := u.clientConn
	addr := u.clientAddr
	u.mu.Unlock()

	if conn == nil || addr == nil {
		return apierror.Transport(apierror.TransportNotInitialized, "StartClient was not called")
	}
	u.raw.Log(true, payload)
	if _, err := conn.WriteToUDP(payload, addr); err != nil {
		return apierror.Transport(apierror.TransportSend, err.Error())
	}
	return nil
}

// StopServer signals the receiver goroutine to exit and waits for it.
// Idempotent.
func (u *Udp) StopServer() {
	u.mu.Lock()
	conn := u.serverConn
	cancel := u.cancel
	done := u.done
	u.serverConn = nil
	u.cancel = nil
	u.done = nil
	u.mu.Unlock()

	if conn == nil {
		return
	}
	cancel()
	<-done
	_ = conn.Close()
}

// StopClient closes the client socket. Idempotent.
func (u *Udp) StopClient() {
	u.mu.Lock()
	conn := u.clientConn
	u.clientConn = nil
	u.clientAddr = nil
	u.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

