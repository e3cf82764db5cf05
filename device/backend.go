// Package device owns the DualSense HID session: enumerating and opening
// the physical controller, writing output reports, and recovering from
// disconnects. The actual HID transport (enumeration, open, read, write)
// is an injected Backend port; this package never talks to an OS HID
// API directly, matching spec §1's "external collaborators" boundary.
package device

import "context"

// Info describes one enumerated controller, opaque beyond what Session
// needs to pick and log a candidate.
type Info struct {
	Path     string
	VendorID uint16
	ProductID uint16
}

// Handle is an opaque, backend-owned device handle.
type Handle interface{}

// Backend is the injected HID transport port. Implementations talk to the
// real OS HID stack (or a fake, for tests); Session never does.
type Backend interface {
	Enumerate(ctx context.Context) ([]Info, error)
	Open(ctx context.Context, info Info) (Handle, error)
	ReadInput(ctx context.Context, h Handle) ([]byte, error)
	WriteOutput(ctx context.Context, h Handle, report []byte) error
	Reconnect(ctx context.Context, h Handle) error
	Close(h Handle) error
}
