package ec

// PortIO is the privileged capability to access single bytes on x86 I/O
// ports. On windows it is backed by the WinRing0 kernel driver, tests use
// an in-memory emulation of the EC handshake.
type PortIO interface {
	ReadPort(port uint16) (byte, error)
	WritePort(port uint16, value byte) error
	Close() error
}
