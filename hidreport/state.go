// Package hidreport assembles the DualSense HID output report from an
// OutputState. It is a pure function over its input: it never reads from
// the network or the device.
package hidreport

import "github.com/tpetsas/dualsensitive/trigger"

// ReportSize is the length of the HID output report buffer.
const ReportSize = 64

// Lightbar is the RGBA color shown on the controller's lightbar. Alpha is
// carried for parity with the original color type but is not written to
// the wire (the device has no alpha channel); Assemble never reads it.
type Lightbar struct {
	R, G, B, A uint8
}

// PlayerLeds controls the five player-indicator LEDs beneath the touchpad.
type PlayerLeds struct {
	Bitmask    uint8
	Brightness uint8
	Fade       bool
}

// OutputState is the full mutable state the Agent owns and flushes to the
// device via a DeviceSession whenever a trigger is set, on SendState and on
// Reset. It is mutated only by the
// Agent; OutputAssembler only reads it.
type OutputState struct {
	LeftTrigger  trigger.Setting
	RightTrigger trigger.Setting

	RumbleLeft  uint8
	RumbleRight uint8

	Lightbar    Lightbar
	PlayerLeds  PlayerLeds
	DisableLeds bool
	MicLed      uint8
}

// Normal resets both triggers to the Normal profile, leaving every other
// field untouched.
func (s *OutputState) Normal() {
	s.LeftTrigger = trigger.Setting{Profile: trigger.Normal}
	s.RightTrigger = trigger.Setting{Profile: trigger.Normal}
}
