//go:build windows

package mozilla

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// secItem matches the NSS SECItem C layout: type tag, data pointer, length.
// The layout must stay exactly this shape for the foreign calls to work.
type secItem struct {
	Type uint32
	Data *byte
	Len  uint32
}

// nssSession holds the loaded library handle and the three resolved entry
// points for one profile's decryption pass.
type nssSession struct {
	handle       windows.Handle
	procInit     uintptr
	procDecrypt  uintptr
	procShutdown uintptr
}

// LoadLibrary loads the NSS library at libPath and resolves NSS_Init,
// PK11SDR_Decrypt, and NSS_Shutdown. LOAD_WITH_ALTERED_SEARCH_PATH makes
// the loader resolve nss3's sibling dependencies (mozglue and friends) from
// the library's own directory; the hint is scoped to this single load call
// and no process-wide search state is touched.
func LoadLibrary(libPath string) (driven.ForeignDecryptor, error) {
	handle, err := windows.LoadLibraryEx(libPath, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return nil, fmt.Errorf("LoadLibraryEx %s: %w", libPath, err)
	}

	s := &nssSession{handle: handle}
	for _, sym := range []struct {
		name string
		dst  *uintptr
	}{
		{"NSS_Init", &s.procInit},
		{"PK11SDR_Decrypt", &s.procDecrypt},
		{"NSS_Shutdown", &s.procShutdown},
	} {
		addr, err := windows.GetProcAddress(handle, sym.name)
		if err != nil {
			windows.FreeLibrary(handle)
			return nil, fmt.Errorf("resolve %s: %w", sym.name, err)
		}
		*sym.dst = addr
	}
	return s, nil
}

// Init initializes NSS against the profile directory holding key4.db.
func (s *nssSession) Init(profileDir string) error {
	cPath, err := windows.BytePtrFromString(profileDir)
	if err != nil {
		return err
	}
	status, _, _ := syscall.SyscallN(s.procInit, uintptr(unsafe.Pointer(cPath)))
	if status != 0 {
		return fmt.Errorf("NSS_Init returned %d", int32(status))
	}
	return nil
}

// Decrypt hands one encrypted item across the C ABI boundary and copies the
// plaintext out of library-owned memory.
func (s *nssSession) Decrypt(encrypted []byte) ([]byte, error) {
	if len(encrypted) == 0 {
		return nil, errors.New("empty encrypted item")
	}

	in := secItem{Type: 0, Data: &encrypted[0], Len: uint32(len(encrypted))}
	var out secItem

	status, _, _ := syscall.SyscallN(s.procDecrypt,
		uintptr(unsafe.Pointer(&in)),
		uintptr(unsafe.Pointer(&out)),
		0)
	if status != 0 {
		return nil, fmt.Errorf("PK11SDR_Decrypt returned %d", int32(status))
	}
	if out.Data == nil || out.Len == 0 {
		return nil, errors.New("PK11SDR_Decrypt produced empty output")
	}

	plain := make([]byte, out.Len)
	copy(plain, unsafe.Slice(out.Data, out.Len))
	return plain, nil
}

// Shutdown tears down the NSS session and releases the library handle.
func (s *nssSession) Shutdown() error {
	status, _, _ := syscall.SyscallN(s.procShutdown)
	windows.FreeLibrary(s.handle)
	if status != 0 {
		return fmt.Errorf("NSS_Shutdown returned %d", int32(status))
	}
	return nil
}
