// Package apierror holds the dualsensitive error taxonomy: a single
// canonical error type plus factory helpers, following the teacher's
// "*ApiError + WrapError" style rather than ad-hoc sentinel strings.
package apierror

import "fmt"

// Kind enumerates the taxonomy from spec §7.
type Kind string

const (
	KindInitFailed                 Kind = "InitFailed"
	KindNoControllersDetected      Kind = "NoControllersDetected"
	KindTransport                  Kind = "TransportError"
	KindMalformedPayload           Kind = "MalformedPayload"
	KindUnknownPayloadKind         Kind = "UnknownPayloadKind"
	KindNotApplicableInMode        Kind = "NotApplicableInMode"
	KindEncoderPreconditionViolated Kind = "EncoderPreconditionViolated"
)

// TransportSubKind enumerates the transport-layer sub-errors from spec §7.
type TransportSubKind string

const (
	TransportSocketCreate    TransportSubKind = "SocketCreate"
	TransportBind            TransportSubKind = "Bind"
	TransportSend            TransportSubKind = "Send"
	TransportNotInitialized  TransportSubKind = "NotInitialized"
	TransportAlreadyRunning  TransportSubKind = "AlreadyRunning"
	TransportCallbackMissing TransportSubKind = "CallbackMissing"
)

// Error is the single canonical error type for the module.
type Error struct {
	Kind    Kind
	Sub     TransportSubKind
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Sub != "" {
		if e.Detail != "" {
			return fmt.Sprintf("%s/%s: %s", e.Kind, e.Sub, e.Detail)
		}
		return fmt.Sprintf("%s/%s", e.Kind, e.Sub)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is lets errors.Is(err, apierror.InitFailed(...)) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Sub != "" && t.Sub != e.Sub {
		return false
	}
	return true
}

func InitFailed(detail string) *Error {
	return &Error{Kind: KindInitFailed, Detail: detail}
}

func NoControllersDetected() *Error {
	return &Error{Kind: KindNoControllersDetected}
}

func Transport(sub TransportSubKind, detail string) *Error {
	return &Error{Kind: KindTransport, Sub: sub, Detail: detail}
}

func MalformedPayload(detail string) *Error {
	return &Error{Kind: KindMalformedPayload, Detail: detail}
}

func UnknownPayloadKind(detail string) *Error {
	return &Error{Kind: KindUnknownPayloadKind, Detail: detail}
}

func NotApplicableInMode(op, mode string) *Error {
	return &Error{Kind: KindNotApplicableInMode, Detail: fmt.Sprintf("%s is not applicable in %s mode", op, mode)}
}

func EncoderPreconditionViolated(detail string) *Error {
	return &Error{Kind: KindEncoderPreconditionViolated, Detail: detail}
}

// Wrap normalizes any error into an *Error of the given kind. An error that
// is already an *Error is returned unchanged, keeping its own kind.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return &Error{Kind: kind, Detail: err.Error(), Wrapped: err}
}
