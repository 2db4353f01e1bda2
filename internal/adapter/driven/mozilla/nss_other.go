//go:build !windows

package mozilla

import (
	"fmt"
	"runtime"

	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// LoadLibrary is unavailable off Windows; Firefox profiles abort with one
// error each and the rest of the scan proceeds.
func LoadLibrary(libPath string) (driven.ForeignDecryptor, error) {
	return nil, fmt.Errorf("dynamic nss loading not supported on %s", runtime.GOOS)
}
