package termplug

import "errors"

// Errors returned by Bridge lifecycle operations. All of them indicate a
// precondition failure; no partial state change has occurred when one is
// returned.
var (
	// ErrNilEditor is returned by CreateEditor when the editor is nil.
	ErrNilEditor = errors.New("termplug: nil editor")

	// ErrNilInstance is returned when an operation receives a nil instance.
	ErrNilInstance = errors.New("termplug: nil instance")

	// ErrUnknownInstance is returned when an instance is not (or no longer)
	// registered with the bridge.
	ErrUnknownInstance = errors.New("termplug: unknown instance")

	// ErrNoRenderer is returned by SetParent when no platform renderer is
	// configured. The instance stays registered and keeps working except
	// for on-screen output.
	ErrNoRenderer = errors.New("termplug: no platform renderer configured")

	// ErrNilParent is returned by SetParent when the parent handle is the
	// zero NativeHandle.
	ErrNilParent = errors.New("termplug: nil parent window handle")
)
