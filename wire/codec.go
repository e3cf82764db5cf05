// Package wire implements the two loopback-UDP payload kinds exchanged
// between a dualsensitive client and server: BIND and TRIGGER (spec §4.4,
// §6). It is endian-explicit (little-endian) and never allocates beyond
// the returned slice.
package wire

import (
	"encoding/binary"

	"github.com/tpetsas/dualsensitive/internal/apierror"
	"github.com/tpetsas/dualsensitive/trigger"
)

// PayloadType is the leading discriminator byte of every datagram.
type PayloadType uint8

const (
	PayloadBind    PayloadType = 0x00
	PayloadTrigger PayloadType = 0x01
)

const (
	minBindSize    = 1 + 4     // type + pid
	minTriggerSize = 1 + 1 + 1 + 1 // type + side + profile + extras_len

	// MaxPayloadSize is the UDP MTU budget accepted by the transport
	// (spec §4.5); oversize datagrams are truncated before reaching the
	// codec.
	MaxPayloadSize = 1024

	// MaxExtras is the largest extras vector the trigger encoder consumes
	// (spec §6: N <= 11). EncodeTrigger and Decode do not check it; they
	// accept any count that fits the one-byte length field.
	MaxExtras = 11
)

// Bind carries the client's process id so the server can track liveness.
type Bind struct {
	PID uint32
}

// Trigger carries a decoded TRIGGER payload.
type Trigger struct {
	Side    trigger.Side
	Profile trigger.Profile
	Extras  []uint8
}

// EncodeBind serializes a BIND payload: [0x00, pid_le_u32] (5 bytes).
func EncodeBind(pid uint32) []byte {
	buf := make([]byte, minBindSize)
	buf[0] = byte(PayloadBind)
	binary.LittleEndian.PutUint32(buf[1:5], pid)
	return buf
}

// EncodeTrigger serializes a TRIGGER payload:
// [0x01, side, profile, len(extras), extras...] (4+N bytes).
func EncodeTrigger(side trigger.Side, profile trigger.Profile, extras []uint8) []byte {
	buf := make([]byte, 4+len(extras))
	buf[0] = byte(PayloadTrigger)
	buf[1] = byte(side)
	buf[2] = byte(profile)
	buf[3] = uint8(len(extras))
	copy(buf[4:], extras)
	return buf
}

// Decode reads the leading discriminator and dispatches to the matching
// payload kind. Unknown discriminators produce UnknownPayloadKind;
// truncated buffers produce MalformedPayload.
func Decode(buf []byte) (any, error) {
	if len(buf) == 0 {
		return nil, apierror.MalformedPayload("empty payload")
	}
	switch PayloadType(buf[0]) {
	case PayloadBind:
		return decodeBind(buf)
	case PayloadTrigger:
		return decodeTrigger(buf)
	default:
		return nil, apierror.UnknownPayloadKind("unknown payload type")
	}
}

func decodeBind(buf []byte) (*Bind, error) {
	if len(buf) < minBindSize {
		return nil, apierror.MalformedPayload("bind payload too small")
	}
	pid := binary.LittleEndian.Uint32(buf[1:5])
	return &Bind{PID: pid}, nil
}

func decodeTrigger(buf []byte) (*Trigger, error) {
	if len(buf) < minTriggerSize {
		return nil, apierror.MalformedPayload("trigger payload too small")
	}
	side := trigger.Side(buf[1])
	profile := trigger.Profile(int8(buf[2]))
	n := int(buf[3])
	if len(buf) < minTriggerSize+n {
		return nil, apierror.MalformedPayload("trigger extras truncated")
	}
	extras := make([]uint8, n)
	copy(extras, buf[4:4+n])
	return &Trigger{Side: side, Profile: profile, Extras: extras}, nil
}
