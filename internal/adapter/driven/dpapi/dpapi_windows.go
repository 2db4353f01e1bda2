//go:build windows

// Package dpapi implements the platform secret-unwrap port on top of the
// Windows Data Protection API.
package dpapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Unwrapper unwraps blobs with CryptUnprotectData in the current user
// context. No key management is exposed; the OS holds the protection keys.
type Unwrapper struct{}

// New creates the DPAPI-backed unwrapper.
func New() *Unwrapper { return &Unwrapper{} }

// Unwrap reverses DPAPI protection over data. A blob protected under a
// different user context (or not a DPAPI blob at all) yields (nil, nil).
func (u *Unwrapper) Unwrap(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	in := windows.DataBlob{
		Size: uint32(len(data)),
		Data: &data[0],
	}
	var out windows.DataBlob

	if err := windows.CryptUnprotectData(&in, nil, nil, 0, nil, 0, &out); err != nil {
		// Wrong user context or a foreign blob; treated as absent.
		return nil, nil
	}
	if out.Data == nil || out.Size == 0 {
		return nil, nil
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(out.Data)))

	plain := make([]byte, out.Size)
	copy(plain, unsafe.Slice(out.Data, out.Size))
	return plain, nil
}
