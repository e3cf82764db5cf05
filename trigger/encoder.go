package trigger

// BlockSize is the fixed length of the per-trigger parameter block the
// controller's HID output report expects.
const BlockSize = 11

// Encode translates a profile plus its extras into the 11-byte trigger
// parameter block. It is total: it never panics and never reads past the
// end of extras. Byte 0 is always the Mode discriminator; when a profile's
// preconditions on extras are not met, only byte 0 is written and the
// remaining 10 bytes stay zero.
func Encode(profile Profile, extras []uint8) [BlockSize]byte {
	var buf [BlockSize]byte
	switch profile {
	case GameCube:
		buf[0] = byte(ModePulse)
		copy(buf[1:4], []byte{144, 160, 255})
	case VerySoft:
		buf[0] = byte(ModePulse)
		copy(buf[1:4], []byte{128, 160, 255})
	case Soft:
		buf[0] = byte(ModeRigidA)
		copy(buf[1:4], []byte{69, 160, 255})
	case Medium:
		buf[0] = byte(ModePulseA)
		copy(buf[1:8], []byte{2, 35, 1, 6, 6, 1, 33})
	case Hard:
		buf[0] = byte(ModeRigidA)
		copy(buf[1:8], []byte{32, 160, 255, 255, 255, 255, 255})
	case VeryHard:
		buf[0] = byte(ModeRigidA)
		copy(buf[1:8], []byte{16, 160, 255, 255, 255, 255, 255})
	case Hardest:
		buf[0] = byte(ModePulse)
		copy(buf[1:8], []byte{0, 255, 255, 255, 255, 255, 255})
	case Rigid:
		buf[0] = byte(ModeRigid)
		copy(buf[1:4], []byte{0, 255, 0})
	case Choppy:
		buf[0] = byte(ModeRigidA)
		copy(buf[1:7], []byte{2, 39, 33, 39, 38, 2})
	case VibrateTrigger, VibrateTriggerPulse:
		buf[0] = byte(ModePulseAB)
		copy(buf[1:8], []byte{37, 35, 6, 39, 33, 35, 34})
	case VibrateTrigger10Hz:
		buf[0] = byte(ModePulseB)
		copy(buf[1:4], []byte{10, 255, 40})

	case Resistance:
		buf[0] = byte(ModeRigidB)
		encodeResistance(&buf, extras)
	case Feedback:
		buf[0] = byte(ModeRigidA)
		encodeFeedback(&buf, extras)
	case Vibration:
		buf[0] = byte(ModeVibrate)
		encodeVibration(&buf, extras)
	case AutomaticGun:
		buf[0] = byte(ModeVibrate)
		encodeAutomaticGun(&buf, extras)
	case SlopeFeedback:
		buf[0] = byte(ModeRigidA)
		encodeSlopeFeedback(&buf, extras)
	case MultiplePositionFeedback:
		buf[0] = byte(ModeRigidA)
		encodeMultiplePositionFeedback(&buf, extras)
	case MultiplePositionVibration:
		buf[0] = byte(ModeVibrate)
		encodeMultiplePositionVibration(&buf, extras)

	case Bow:
		buf[0] = byte(ModePulseA)
		encodeBow(&buf, extras)
	case Galloping:
		buf[0] = byte(ModePulseA2)
		encodeGalloping(&buf, extras)
	case Machine:
		buf[0] = byte(ModePulseAB)
		encodeMachine(&buf, extras)
	case Weapon:
		buf[0] = byte(ModeWeapon)
		encodeWeaponLike(&buf, extras, 2, 7, 8)
	case SemiAutomaticGun:
		buf[0] = byte(ModeWeapon)
		encodeWeaponLike(&buf, extras, 2, 7, 8)

	case Custom:
		encodeCustom(&buf, extras)

	case Normal:
		fallthrough
	default:
		buf[0] = byte(ModeRigidB)
	}
	return buf
}

// gridPack packs, for each position i in 0..9 with a nonzero strength[i],
// bit i into a 10-bit position mask and the 3-bit field (strength[i]-1)&7
// at bit offset 3*i of a 32-bit intensity word. Strengths are not clamped:
// values above 8 keep only those low three bits. It writes
// the resulting mask (buf[1:3]) and word (buf[3:7]) little-endian, and
// reports whether any position was set.
func gridPack(buf *[BlockSize]byte, strength [10]uint8) bool {
	var mask uint16
	var word uint32
	any := false
	for i := 0; i < 10; i++ {
		if strength[i] == 0 {
			continue
		}
		any = true
		b := uint32((strength[i]-1)&7) << uint(3*i)
		word |= b
		mask |= 1 << uint(i)
	}
	buf[1] = byte(mask & 0xFF)
	buf[2] = byte(mask >> 8)
	buf[3] = byte(word)
	buf[4] = byte(word >> 8)
	buf[5] = byte(word >> 16)
	buf[6] = byte(word >> 24)
	return any
}

func encodeResistance(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 2 {
		return
	}
	start, force := extras[0], extras[1]
	if start > 9 || force == 0 || force > 8 {
		return
	}
	var strength [10]uint8
	for i := int(start); i < 10; i++ {
		strength[i] = force
	}
	gridPack(buf, strength)
}

func encodeFeedback(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 2 {
		return
	}
	position, s := extras[0], extras[1]
	if position > 9 || s > 8 {
		return
	}
	if s == 0 {
		return
	}
	var strength [10]uint8
	for i := int(position); i < 10; i++ {
		strength[i] = s
	}
	gridPack(buf, strength)
}

func encodeVibration(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 3 {
		return
	}
	position, amplitude, frequency := extras[0], extras[1], extras[2]
	if position > 9 || amplitude == 0 || amplitude > 10 || frequency == 0 {
		return
	}
	var strength [10]uint8
	for i := int(position); i < 10; i++ {
		strength[i] = amplitude
	}
	gridPack(buf, strength)
	buf[9] = frequency
}

func encodeAutomaticGun(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 3 {
		return
	}
	start, strengthVal, frequency := extras[0], extras[1], extras[2]
	if start > 9 || strengthVal == 0 || strengthVal > 8 || frequency == 0 {
		return
	}
	var strength [10]uint8
	for i := int(start); i < 10; i++ {
		strength[i] = strengthVal
	}
	gridPack(buf, strength)
	buf[8] = frequency
}

func encodeSlopeFeedback(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 4 {
		return
	}
	startPos, endPos, startStr, endStr := extras[0], extras[1], extras[2], extras[3]
	if startPos > 8 || endPos <= startPos || endPos > 9 {
		return
	}
	if startStr == 0 || startStr > 8 || endStr == 0 || endStr > 8 {
		return
	}
	var arr [10]uint8
	slope := (float64(endStr) - float64(startStr)) / (float64(endPos) - float64(startPos))
	for i := int(startPos); i < 10; i++ {
		if i <= int(endPos) {
			v := float64(startStr) + slope*float64(i-int(startPos))
			arr[i] = uint8(roundHalfAwayFromZero(v))
		} else {
			arr[i] = endStr
		}
	}
	gridPack(buf, arr)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

func encodeMultiplePositionFeedback(buf *[BlockSize]byte, extras []uint8) {
	var strength [10]uint8
	for i := 0; i < 10 && i < len(extras); i++ {
		strength[i] = extras[i]
	}
	gridPack(buf, strength)
}

func encodeMultiplePositionVibration(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 1 {
		return
	}
	frequency := extras[0]
	var amplitudes [10]uint8
	for i := 0; i < 10 && i+1 < len(extras); i++ {
		amplitudes[i] = extras[i+1]
	}
	anyAmplitude := false
	for _, a := range amplitudes {
		if a > 0 {
			anyAmplitude = true
			break
		}
	}
	if frequency == 0 || !anyAmplitude {
		return
	}
	gridPack(buf, amplitudes)
	buf[7] = 0
	buf[8] = 0
	buf[9] = frequency
}

func encodeBow(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 4 {
		return
	}
	start, end, force, snapForce := extras[0], extras[1], extras[2], extras[3]
	if start >= end || end == 0 || end > 8 || start > 8 {
		return
	}
	if force == 0 || force > 8 || snapForce == 0 || snapForce > 8 {
		return
	}
	mask := uint16(1)<<uint(start) | uint16(1)<<uint(end)
	params := uint16(((force - 1) & 7) | (((snapForce - 1) & 7) << 3))
	buf[1] = byte(mask & 0xFF)
	buf[2] = byte(mask >> 8)
	buf[3] = byte(params & 0xFF)
	buf[4] = byte(params >> 8)
}

func encodeGalloping(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 5 {
		return
	}
	start, end, firstFoot, secondFoot, frequency := extras[0], extras[1], extras[2], extras[3], extras[4]
	if start > 8 || end > 9 || start >= end {
		return
	}
	if secondFoot > 7 || firstFoot > 6 || firstFoot >= secondFoot || frequency == 0 {
		return
	}
	mask := uint16(1)<<uint(start) | uint16(1)<<uint(end)
	params := (secondFoot & 7) | ((firstFoot & 7) << 3)
	buf[1] = byte(mask & 0xFF)
	buf[2] = byte(mask >> 8)
	buf[3] = params
	buf[4] = frequency
}

func encodeMachine(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) < 6 {
		return
	}
	start, end, strA, strB, frequency, period := extras[0], extras[1], extras[2], extras[3], extras[4], extras[5]
	if start > 8 || end > 9 || end <= start {
		return
	}
	if strA > 7 || strB > 7 || frequency == 0 {
		return
	}
	mask := uint16(1)<<uint(start) | uint16(1)<<uint(end)
	params := (strA & 7) | ((strB & 7) << 3)
	buf[1] = byte(mask & 0xFF)
	buf[2] = byte(mask >> 8)
	buf[3] = params
	buf[4] = frequency
	buf[5] = period
}

// encodeWeaponLike implements both Weapon and SemiAutomaticGun, which share
// an identical byte layout and precondition shape differing only in naming.
func encodeWeaponLike(buf *[BlockSize]byte, extras []uint8, minStart, maxStart, maxEnd uint8) {
	if len(extras) < 3 {
		return
	}
	start, end, strengthVal := extras[0], extras[1], extras[2]
	if start < minStart || start > maxStart || end <= start || end > maxEnd {
		return
	}
	if strengthVal == 0 || strengthVal > 8 {
		return
	}
	mask := uint16(1)<<uint(start) | uint16(1)<<uint(end)
	buf[1] = byte(mask & 0xFF)
	buf[2] = byte(mask >> 8)
	buf[3] = strengthVal - 1
}

// encodeCustom is the escape hatch: extras[0] is the raw Mode byte, and up
// to 7 further bytes (extras[1:8]) are copied verbatim into buf[1:8].
func encodeCustom(buf *[BlockSize]byte, extras []uint8) {
	if len(extras) == 0 {
		return
	}
	buf[0] = extras[0]
	n := len(extras) - 1
	if n > 7 {
		n = 7
	}
	if n > 0 {
		copy(buf[1:1+n], extras[1:1+n])
	}
}
