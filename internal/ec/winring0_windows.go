//go:build windows

package ec

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/windows"
)

const (
	winRing0DeviceName = `\\.\WinRing0_1_2_0`

	olsType = 40000

	ioctlOlsReadIoPortByte  = olsType<<16 | 1<<14 | 0x833<<2
	ioctlOlsWriteIoPortByte = olsType<<16 | 2<<14 | 0x836<<2
)

type winRing0Port struct {
	handle windows.Handle
}

// OpenPortIO opens a handle to the WinRing0 device. The driver service has
// to be running already, see the driver package.
func OpenPortIO() (PortIO, error) {
	name, err := windows.UTF16PtrFromString(winRing0DeviceName)
	if err != nil {
		return nil, err
	}

	handle, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("opening WinRing0 device: %w", err)
	}

	return &winRing0Port{handle: handle}, nil
}

func (p *winRing0Port) ReadPort(port uint16) (byte, error) {
	var input [4]byte
	var output [4]byte
	binary.LittleEndian.PutUint32(input[:], uint32(port))

	var bytesReturned uint32
	err := windows.DeviceIoControl(
		p.handle,
		ioctlOlsReadIoPortByte,
		&input[0], uint32(len(input)),
		&output[0], uint32(len(output)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("reading I/O port 0x%X: %w", port, err)
	}

	return output[0], nil
}

func (p *winRing0Port) WritePort(port uint16, value byte) error {
	// matches the OLS_WRITE_IO_PORT_INPUT layout: u32 port, u8 value
	var input [8]byte
	binary.LittleEndian.PutUint32(input[:], uint32(port))
	input[4] = value

	var bytesReturned uint32
	err := windows.DeviceIoControl(
		p.handle,
		ioctlOlsWriteIoPortByte,
		&input[0], uint32(len(input)),
		nil, 0,
		&bytesReturned,
		nil,
	)
	if err != nil {
		return fmt.Errorf("writing 0x%02X to I/O port 0x%X: %w", value, port, err)
	}

	return nil
}

func (p *winRing0Port) Close() error {
	return windows.CloseHandle(p.handle)
}
