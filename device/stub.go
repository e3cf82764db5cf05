package device

import (
	"context"

	"github.com/tpetsas/dualsensitive/internal/apierror"
)

// unsupportedBackend is the Backend used when no platform HID transport has
// been injected. It always reports no controllers, which is the honest
// answer: the real DualSense transport (HID report I/O) lives outside this
// module's scope (spec §1, §6 "external interfaces" — the backend is an
// injected collaborator, not something this package opens itself).
type unsupportedBackend struct{}

// NewUnsupportedBackend returns a Backend stub embedders can use as a
// placeholder until a real platform HID transport is wired in; every
// Enumerate call returns an empty list, which drives Session.Connect
// through its normal NoControllersDetected retry/failure path rather than
// panicking or doing OS-specific I/O this module has no grounded
// dependency for.
func NewUnsupportedBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Enumerate(ctx context.Context) ([]Info, error) {
	return nil, nil
}

func (unsupportedBackend) Open(ctx context.Context, info Info) (Handle, error) {
	return nil, apierror.InitFailed("no HID backend configured")
}

func (unsupportedBackend) ReadInput(ctx context.Context, h Handle) ([]byte, error) {
	return nil, apierror.InitFailed("no HID backend configured")
}

func (unsupportedBackend) WriteOutput(ctx context.Context, h Handle, report []byte) error {
	return apierror.InitFailed("no HID backend configured")
}

func (unsupportedBackend) Reconnect(ctx context.Context, h Handle) error {
	return apierror.InitFailed("no HID backend configured")
}

func (unsupportedBackend) Close(h Handle) error {
	return nil
}
