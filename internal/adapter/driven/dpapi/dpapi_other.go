//go:build !windows

package dpapi

import "github.com/ericfisherdev/credsweep/internal/domain/port/driven"

// Unwrapper is a placeholder on platforms without DPAPI. Every call reports
// ErrUnwrapUnsupported, so master-key resolution fails open and each record
// decrypt surfaces its own error in the scan report.
type Unwrapper struct{}

// New creates the stub unwrapper.
func New() *Unwrapper { return &Unwrapper{} }

// Unwrap always fails with ErrUnwrapUnsupported.
func (u *Unwrapper) Unwrap(data []byte) ([]byte, error) {
	return nil, driven.ErrUnwrapUnsupported
}
