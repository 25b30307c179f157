package ec

import (
	"errors"
	"fmt"
)

const (
	commandPort uint16 = 0x66
	dataPort    uint16 = 0x62

	cmdReadRegister  byte = 0x80
	cmdWriteRegister byte = 0x81

	statusOutputBufferFull byte = 0x01
	statusInputBufferFull  byte = 0x02

	// maximum number of status polls before a single wait gives up
	pollBound = 500
	// maximum number of full handshake attempts per register access
	maxAttempts = 5
)

// ErrHandshakeTimeout indicates that the EC did not signal readiness within
// the poll bound. A register access is only reported as failed after all
// handshake attempts ran into this.
var ErrHandshakeTimeout = errors.New("timeout waiting for EC status")

// Link implements the two-port request/acknowledge handshake of the EC.
//
// A handshake must never be interleaved with another one, the command/data
// sequencing on the shared ports would be corrupted. All register access
// therefore has to go through the CommandQueue, which owns the only Link.
type Link struct {
	ports PortIO
}

func NewLink(ports PortIO) *Link {
	return &Link{ports: ports}
}

// ReadRegister reads a single EC register, retrying the whole handshake on
// timeouts.
func (l *Link) ReadRegister(register byte) (value byte, err error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		value, err = l.tryReadRegister(register)
		if err == nil {
			return value, nil
		}
	}
	return 0, fmt.Errorf("reading EC register 0x%02X failed after %d attempts: %w", register, maxAttempts, err)
}

// WriteRegister writes a single EC register, retrying the whole handshake on
// timeouts.
func (l *Link) WriteRegister(register byte, value byte) (err error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = l.tryWriteRegister(register, value)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("writing EC register 0x%02X failed after %d attempts: %w", register, maxAttempts, err)
}

func (l *Link) tryReadRegister(register byte) (byte, error) {
	if err := l.waitWriteReady(); err != nil {
		return 0, err
	}
	if err := l.ports.WritePort(commandPort, cmdReadRegister); err != nil {
		return 0, err
	}

	if err := l.waitWriteReady(); err != nil {
		return 0, err
	}
	if err := l.ports.WritePort(dataPort, register); err != nil {
		return 0, err
	}

	if err := l.waitWriteReady(); err != nil {
		return 0, err
	}
	if err := l.waitReadReady(); err != nil {
		return 0, err
	}
	return l.ports.ReadPort(dataPort)
}

func (l *Link) tryWriteRegister(register byte, value byte) error {
	if err := l.waitWriteReady(); err != nil {
		return err
	}
	if err := l.ports.WritePort(commandPort, cmdWriteRegister); err != nil {
		return err
	}

	if err := l.waitWriteReady(); err != nil {
		return err
	}
	if err := l.ports.WritePort(dataPort, register); err != nil {
		return err
	}

	if err := l.waitWriteReady(); err != nil {
		return err
	}
	return l.ports.WritePort(dataPort, value)
}

// waitWriteReady busy-polls until the input buffer full bit clears,
// meaning the EC accepts the next command or data byte.
func (l *Link) waitWriteReady() error {
	return l.waitStatus(statusInputBufferFull, false)
}

// waitReadReady busy-polls until the output buffer full bit is set,
// meaning the EC has placed a byte on the data port.
func (l *Link) waitReadReady() error {
	return l.waitStatus(statusOutputBufferFull, true)
}

func (l *Link) waitStatus(mask byte, set bool) error {
	for i := 0; i < pollBound; i++ {
		status, err := l.ports.ReadPort(commandPort)
		if err != nil {
			return err
		}
		if set {
			status = ^status
		}
		if mask&status == 0 {
			return nil
		}
	}
	return ErrHandshakeTimeout
}
