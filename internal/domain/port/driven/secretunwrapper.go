package driven

import "errors"

// ErrUnwrapUnsupported is returned by SecretUnwrapper implementations on
// platforms that expose no OS secret-protection service.
var ErrUnwrapUnsupported = errors.New("platform secret unwrap not supported on this OS")

// SecretUnwrapper reverses OS-applied protection over a byte blob, bound to
// the current user's context. A (nil, nil) return means the blob could not
// be unwrapped in this context, which is a legitimate outcome (foreign blob,
// different user), not an error. Errors are reserved for hard failures such
// as an unsupported platform.
type SecretUnwrapper interface {
	Unwrap(data []byte) ([]byte, error)
}
