package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tpetsas/dualsensitive/trigger"
)

func TestEncodeStaticProfiles(t *testing.T) {
	cases := []struct {
		name    string
		profile trigger.Profile
		want    [trigger.BlockSize]byte
	}{
		{
			name:    "GameCube",
			profile: trigger.GameCube,
			want:    [11]byte{0x02, 144, 160, 255, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:    "Normal",
			profile: trigger.Normal,
			want:    [11]byte{byte(trigger.ModeRigidB), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:    "Rigid",
			profile: trigger.Rigid,
			want:    [11]byte{byte(trigger.ModeRigid), 0, 255, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := trigger.Encode(tc.profile, nil)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeCustom(t *testing.T) {
	extras := []uint8{byte(trigger.ModeRigidA), 60, 71, 56, 128, 195, 210, 255}
	got := trigger.Encode(trigger.Custom, extras)
	want := [11]byte{0x21, 60, 71, 56, 128, 195, 210, 255, 0, 0, 0}
	assert.Equal(t, want, got)
}

func TestEncodeCustomEmptyExtras(t *testing.T) {
	got := trigger.Encode(trigger.Custom, nil)
	assert.Equal(t, [11]byte{}, got)
}

func TestEncodeResistance(t *testing.T) {
	got := trigger.Encode(trigger.Resistance, []uint8{3, 4})
	assert.Equal(t, byte(trigger.ModeRigidB), got[0])
	mask := uint16(got[1]) | uint16(got[2])<<8
	assert.Equal(t, uint16(0x03F8), mask)
}

func TestEncodeBowInvalidStartAfterEnd(t *testing.T) {
	got := trigger.Encode(trigger.Bow, []uint8{5, 2, 4, 4})
	want := [11]byte{byte(trigger.ModePulseA), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, want, got)
}

func TestEncodePreconditionViolationsOnlyWriteModeByte(t *testing.T) {
	cases := []struct {
		name    string
		profile trigger.Profile
		extras  []uint8
	}{
		{"Resistance too few extras", trigger.Resistance, []uint8{1}},
		{"Resistance force zero", trigger.Resistance, []uint8{0, 0}},
		{"Feedback strength too high", trigger.Feedback, []uint8{0, 9}},
		{"Vibration amplitude too high", trigger.Vibration, []uint8{0, 11, 1}},
		{"Weapon start after end", trigger.Weapon, []uint8{5, 3, 4}},
		{"Galloping secondFoot too high", trigger.Galloping, []uint8{0, 5, 1, 8, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := trigger.Encode(tc.profile, tc.extras)
			for i := 1; i < trigger.BlockSize; i++ {
				assert.Equalf(t, byte(0), got[i], "byte %d should stay zero", i)
			}
		})
	}
}

func TestEncodeMultiplePositionFeedback(t *testing.T) {
	extras := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 1, 2}
	got := trigger.Encode(trigger.MultiplePositionFeedback, extras)
	assert.Equal(t, byte(trigger.ModeRigidA), got[0])
	mask := uint16(got[1]) | uint16(got[2])<<8
	assert.NotZero(t, mask)
}

func TestEncodeIsTotalNeverPanics(t *testing.T) {
	for p := trigger.Normal; p <= trigger.Custom; p++ {
		assert.NotPanics(t, func() {
			trigger.Encode(p, nil)
			trigger.Encode(p, []uint8{1, 2, 3})
		})
	}
}
