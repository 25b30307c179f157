package ec

import (
	"fmt"
	"sync"
)

const (
	stateIdle = iota
	stateReadWantRegister
	stateReadReady
	stateWriteWantRegister
	stateWriteWantValue
)

type registerWrite struct {
	register byte
	value    byte
}

// fakeEC emulates the EC handshake state machine over the two I/O ports.
// It detects interleaved handshakes and can simulate busy periods that make
// whole handshake attempts time out.
type fakeEC struct {
	mu       sync.Mutex
	regs     [256]byte
	state    int
	register byte

	// number of whole handshake attempts that will time out before the
	// EC starts answering
	failAttempts int
	polls        int

	// set when a command byte arrives while another handshake is running
	interleaved bool

	writes []registerWrite
}

func newFakeEC() *fakeEC {
	return &fakeEC{}
}

func (f *fakeEC) ReadPort(port uint16) (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch port {
	case commandPort:
		f.polls++
		if f.polls <= f.failAttempts*pollBound {
			// pretend the input buffer never drains
			return statusInputBufferFull, nil
		}
		if f.state == stateReadReady {
			return statusOutputBufferFull, nil
		}
		return 0, nil
	case dataPort:
		if f.state != stateReadReady {
			return 0, fmt.Errorf("data port read outside of a read handshake (state %d)", f.state)
		}
		f.state = stateIdle
		return f.regs[f.register], nil
	default:
		return 0, fmt.Errorf("unexpected port 0x%X", port)
	}
}

func (f *fakeEC) WritePort(port uint16, value byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch port {
	case commandPort:
		if f.state != stateIdle {
			f.interleaved = true
		}
		switch value {
		case cmdReadRegister:
			f.state = stateReadWantRegister
		case cmdWriteRegister:
			f.state = stateWriteWantRegister
		default:
			return fmt.Errorf("unknown EC command 0x%02X", value)
		}
	case dataPort:
		switch f.state {
		case stateReadWantRegister:
			f.register = value
			f.state = stateReadReady
		case stateWriteWantRegister:
			f.register = value
			f.state = stateWriteWantValue
		case stateWriteWantValue:
			f.regs[f.register] = value
			f.writes = append(f.writes, registerWrite{register: f.register, value: value})
			f.state = stateIdle
		default:
			return fmt.Errorf("data port write outside of a handshake (state %d)", f.state)
		}
	default:
		return fmt.Errorf("unexpected port 0x%X", port)
	}
	return nil
}

func (f *fakeEC) Close() error {
	return nil
}

func (f *fakeEC) setRegister(register byte, value byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[register] = value
}

func (f *fakeEC) getRegister(register byte) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[register]
}

func (f *fakeEC) registerWrites() []registerWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]registerWrite{}, f.writes...)
}

func (f *fakeEC) wasInterleaved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interleaved
}
