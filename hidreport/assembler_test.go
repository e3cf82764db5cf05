package hidreport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tpetsas/dualsensitive/hidreport"
	"github.com/tpetsas/dualsensitive/trigger"
)

func TestAssembleReportSize(t *testing.T) {
	var state hidreport.OutputState
	state.Normal()
	report := hidreport.Assemble(&state)
	assert.Len(t, report, hidreport.ReportSize)
}

func TestAssembleFeatureMasksAlwaysSet(t *testing.T) {
	var state hidreport.OutputState
	report := hidreport.Assemble(&state)
	assert.Equal(t, byte(0xFF), report[0x00])
	assert.Equal(t, byte(0xF7), report[0x01])
}

func TestAssembleTriggerBlocksAtOffsets(t *testing.T) {
	var state hidreport.OutputState
	state.LeftTrigger = trigger.Setting{Profile: trigger.GameCube}
	state.RightTrigger = trigger.Setting{Profile: trigger.Rigid}
	report := hidreport.Assemble(&state)

	leftBlock := trigger.Encode(trigger.GameCube, nil)
	rightBlock := trigger.Encode(trigger.Rigid, nil)

	assert.Equal(t, leftBlock[:], report[0x15:0x15+trigger.BlockSize])
	assert.Equal(t, rightBlock[:], report[0x0A:0x0A+trigger.BlockSize])
}

func TestAssembleLedFadeBit(t *testing.T) {
	var faded, steady hidreport.OutputState
	faded.PlayerLeds.Fade = true
	steady.PlayerLeds.Fade = false

	fadedReport := hidreport.Assemble(&faded)
	steadyReport := hidreport.Assemble(&steady)

	assert.Equal(t, byte(0), fadedReport[0x2B]&0x20)
	assert.Equal(t, byte(0x20), steadyReport[0x2B]&0x20)
}

func TestAssembleLightbarAndRumble(t *testing.T) {
	var state hidreport.OutputState
	state.Lightbar = hidreport.Lightbar{R: 10, G: 20, B: 30}
	state.RumbleLeft = 100
	state.RumbleRight = 200
	report := hidreport.Assemble(&state)

	assert.Equal(t, byte(10), report[0x2C])
	assert.Equal(t, byte(20), report[0x2D])
	assert.Equal(t, byte(30), report[0x2E])
	assert.Equal(t, byte(200), report[0x02])
	assert.Equal(t, byte(100), report[0x03])
}

func TestAssembleLedDisableFlag(t *testing.T) {
	var enabled, disabled hidreport.OutputState
	disabled.DisableLeds = true

	assert.Equal(t, byte(0x02), hidreport.Assemble(&enabled)[0x29])
	assert.Equal(t, byte(0x01), hidreport.Assemble(&disabled)[0x29])
}
