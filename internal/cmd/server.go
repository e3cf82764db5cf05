package cmd

import (
	"github.com/tpetsas/dualsensitive/agent"
	"github.com/tpetsas/dualsensitive/device"
)

// Server applies triggers received over loopback UDP to a locally attached
// controller, and shuts itself down once the bound client exits (spec §3
// "Server", §4.6 "Liveness monitor").
type Server struct {
	Port uint16    `help:"UDP port to listen on" default:"6185" env:"DUALSENSITIVE_PORT"`
	Log  LogConfig `embed:"" prefix:"log."`
}

// Run is called by kong when the server command is executed.
func (s *Server) Run() error {
	logger, _, closeLog, err := s.Log.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := interruptContext()
	defer stop()

	a := agent.New(device.NewUnsupportedBackend())
	if err := a.Init(ctx, agent.Server, s.Log.Level, s.Log.File, s.Log.Raw, s.Port); err != nil {
		return err
	}
	return runUntilSignal(ctx, logger, a)
}
