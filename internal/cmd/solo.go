package cmd

import (
	"github.com/tpetsas/dualsensitive/agent"
	"github.com/tpetsas/dualsensitive/device"
)

// Solo runs the Agent against a locally attached controller with no
// network component at all (spec §3 "Solo").
type Solo struct {
	Log LogConfig `embed:"" prefix:"log."`
}

// Run is called by kong when the solo command is executed.
func (s *Solo) Run() error {
	logger, _, closeLog, err := s.Log.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := interruptContext()
	defer stop()

	a := agent.New(device.NewUnsupportedBackend())
	if err := a.Init(ctx, agent.Solo, s.Log.Level, s.Log.File, s.Log.Raw, 0); err != nil {
		return err
	}
	return runUntilSignal(ctx, logger, a)
}
