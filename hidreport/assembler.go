package hidreport

import "github.com/tpetsas/dualsensitive/trigger"

// Byte offsets into the 64-byte HID output report. See spec §4.2.
const (
	offFeatureMask1  = 0x00
	offFeatureMask2  = 0x01
	offRumbleRight   = 0x02
	offRumbleLeft    = 0x03
	offMicLed        = 0x08
	offRightTrigger  = 0x0A
	offLeftTrigger   = 0x15
	offLedEnable     = 0x26
	offLedDisable    = 0x29
	offLedBrightness = 0x2A
	offLedBitmask    = 0x2B
	offLightbarR     = 0x2C
	offLightbarG     = 0x2D
	offLightbarB     = 0x2E

	featureMask1 = 0xFF
	featureMask2 = 0xF7

	ledBrightnessEnable = 0x03
	ledFadeBitClear     = 0x20

	ledsEnabledFlag  = 0x02
	ledsDisabledFlag = 0x01
)

// Assemble builds a full 64-byte HID output report from state. Every byte
// not named in the layout table stays zero.
func Assemble(state *OutputState) [ReportSize]byte {
	var buf [ReportSize]byte

	buf[offFeatureMask1] = featureMask1
	buf[offFeatureMask2] = featureMask2

	buf[offRumbleRight] = state.RumbleRight
	buf[offRumbleLeft] = state.RumbleLeft

	buf[offMicLed] = state.MicLed

	rightBlock := trigger.Encode(state.RightTrigger.Profile, state.RightTrigger.Extras)
	copy(buf[offRightTrigger:offRightTrigger+trigger.BlockSize], rightBlock[:])

	leftBlock := trigger.Encode(state.LeftTrigger.Profile, state.LeftTrigger.Extras)
	copy(buf[offLeftTrigger:offLeftTrigger+trigger.BlockSize], leftBlock[:])

	buf[offLedEnable] = ledBrightnessEnable
	if state.DisableLeds {
		buf[offLedDisable] = ledsDisabledFlag
	} else {
		buf[offLedDisable] = ledsEnabledFlag
	}
	buf[offLedBrightness] = state.PlayerLeds.Brightness

	bitmask := state.PlayerLeds.Bitmask
	if state.PlayerLeds.Fade {
		bitmask &^= ledFadeBitClear
	} else {
		bitmask |= ledFadeBitClear
	}
	buf[offLedBitmask] = bitmask

	buf[offLightbarR] = state.Lightbar.R
	buf[offLightbarG] = state.Lightbar.G
	buf[offLightbarB] = state.Lightbar.B

	return buf
}
