// Package cmd holds the kong command structs cmd/dualsensitive wires up:
// one per Agent mode plus the config-template scaffolder, following the
// teacher's internal/cmd layout (one file per subcommand, each with a Run()
// method that kong calls and that builds its own logger via LogConfig.setup).
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tpetsas/dualsensitive/agent"
	dslog "github.com/tpetsas/dualsensitive/internal/log"
)

// CLI is the root command set for cmd/dualsensitive.
type CLI struct {
	ConfigFile string `name:"config" help:"Path to a config file (json/yaml/toml, picked by extension)" type:"path"`

	Solo   Solo          `cmd:"" help:"Run a locally attached controller directly, no network involved"`
	Server Server        `cmd:"" help:"Apply triggers received over loopback UDP to a locally attached controller"`
	Client Client        `cmd:"" help:"Send trigger commands to a dualsensitive server over loopback UDP"`
	Config ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// LogConfig is embedded by every mode command, mirroring the teacher's
// flat `--log.level` / `--log.file` flag grouping.
type LogConfig struct {
	Level string `help:"Log level (trace,debug,info,warn,error)" enum:"trace,debug,info,warn,error" default:"info" env:"DUALSENSITIVE_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of the console" env:"DUALSENSITIVE_LOG_FILE"`
	Raw   bool   `help:"Hex-dump every HID report and UDP datagram" env:"DUALSENSITIVE_LOG_RAW"`
}

func (l LogConfig) setup() (*slog.Logger, dslog.RawLogger, func(), error) {
	logger, raw, closers, err := dslog.Setup(l.Level, l.File, l.Raw)
	if err != nil {
		return nil, nil, nil, err
	}
	return logger, raw, func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}, nil
}

func runUntilSignal(ctx context.Context, logger *slog.Logger, a *agent.Agent) error {
	<-ctx.Done()
	logger.Info("shutting down")
	return a.Terminate()
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
