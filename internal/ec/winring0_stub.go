//go:build !windows

package ec

import "errors"

// OpenPortIO is only implemented on windows, where the WinRing0 kernel
// driver provides raw I/O port access.
func OpenPortIO() (PortIO, error) {
	return nil, errors.New("raw I/O port access is only supported on windows")
}
