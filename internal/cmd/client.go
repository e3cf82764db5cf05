package cmd

import (
	"strings"

	"github.com/tpetsas/dualsensitive/agent"
	"github.com/tpetsas/dualsensitive/device"
	"github.com/tpetsas/dualsensitive/trigger"
)

// profileByName is the CLI's string->Profile lookup, covering every name
// in trigger.Profile's enum (spec §4.1).
var profileByName = map[string]trigger.Profile{
	"normal":                      trigger.Normal,
	"gamecube":                    trigger.GameCube,
	"verysoft":                    trigger.VerySoft,
	"soft":                        trigger.Soft,
	"medium":                      trigger.Medium,
	"hard":                        trigger.Hard,
	"veryhard":                    trigger.VeryHard,
	"hardest":                     trigger.Hardest,
	"rigid":                       trigger.Rigid,
	"choppy":                      trigger.Choppy,
	"vibratetrigger":              trigger.VibrateTrigger,
	"vibratetriggerpulse":         trigger.VibrateTriggerPulse,
	"resistance":                  trigger.Resistance,
	"galloping":                   trigger.Galloping,
	"machine":                     trigger.Machine,
	"feedback":                    trigger.Feedback,
	"vibration":                   trigger.Vibration,
	"vibratetrigger10hz":          trigger.VibrateTrigger10Hz,
	"slopefeedback":               trigger.SlopeFeedback,
	"multiplepositionfeedback":    trigger.MultiplePositionFeedback,
	"multiplepositionvibration":   trigger.MultiplePositionVibration,
	"bow":                         trigger.Bow,
	"weapon":                      trigger.Weapon,
	"semiautomaticgun":            trigger.SemiAutomaticGun,
	"automaticgun":                trigger.AutomaticGun,
	"custom":                      trigger.Custom,
}

// Client sends trigger commands to a dualsensitive server over loopback
// UDP; it never opens a local controller (spec §3 "Client"). As a CLI it
// doubles as a liveness-monitor exerciser: it binds its pid to the server
// and then blocks until interrupted, at which point the server's monitor
// notices the exit and resets/terminates on its own.
type Client struct {
	Port    uint16   `help:"Server UDP port to send to" default:"6185" env:"DUALSENSITIVE_PORT"`
	Profile string   `help:"Trigger profile to send once at startup, by name" optional:""`
	Side    string   `help:"Which trigger the one-shot profile applies to" enum:"left,right" default:"right"`
	Extras  []uint8  `help:"Profile parameter bytes for the one-shot trigger"`
	Log     LogConfig `embed:"" prefix:"log."`
}

// Run is called by kong when the client command is executed.
func (c *Client) Run() error {
	logger, _, closeLog, err := c.Log.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := interruptContext()
	defer stop()

	a := agent.New(device.NewUnsupportedBackend())
	if err := a.Init(ctx, agent.Client, c.Log.Level, c.Log.File, c.Log.Raw, c.Port); err != nil {
		return err
	}
	if err := a.SendPidToServer(); err != nil {
		logger.Warn("failed to bind to server", "error", err)
	}

	if c.Profile != "" {
		profile, ok := profileByName[strings.ToLower(c.Profile)]
		if !ok {
			logger.Warn("unknown profile, ignoring one-shot trigger", "profile", c.Profile)
		} else {
			var sendErr error
			if c.Side == "left" {
				sendErr = a.SetLeftTrigger(ctx, profile, c.Extras)
			} else {
				sendErr = a.SetRightTrigger(ctx, profile, c.Extras)
			}
			if sendErr != nil {
				logger.Warn("failed to send trigger", "error", sendErr)
			}
		}
	}

	return runUntilSignal(ctx, logger, a)
}
