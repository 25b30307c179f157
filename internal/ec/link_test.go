package ec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkReadRegister(t *testing.T) {
	// GIVEN
	fake := newFakeEC()
	fake.setRegister(0x42, 0xAB)
	link := NewLink(fake)

	// WHEN
	value, err := link.ReadRegister(0x42)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAB), value)
}

func TestLinkWriteRegister(t *testing.T) {
	// GIVEN
	fake := newFakeEC()
	link := NewLink(fake)

	// WHEN
	err := link.WriteRegister(0x42, 0xCD)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, byte(0xCD), fake.getRegister(0x42))
}

func TestLinkRetriesUntilTheLastAttempt(t *testing.T) {
	// GIVEN: the EC stays busy for 4 whole handshake attempts
	fake := newFakeEC()
	fake.failAttempts = maxAttempts - 1
	fake.setRegister(0x42, 0x11)
	link := NewLink(fake)

	// WHEN
	value, err := link.ReadRegister(0x42)

	// THEN: the 5th attempt succeeds
	assert.NoError(t, err)
	assert.Equal(t, byte(0x11), value)
}

func TestLinkGivesUpAfterMaxAttempts(t *testing.T) {
	// GIVEN: the EC stays busy for all handshake attempts
	fake := newFakeEC()
	fake.failAttempts = maxAttempts
	link := NewLink(fake)

	// WHEN
	_, err := link.ReadRegister(0x42)

	// THEN
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeTimeout))
}

func TestLinkWriteGivesUpAfterMaxAttempts(t *testing.T) {
	// GIVEN
	fake := newFakeEC()
	fake.failAttempts = maxAttempts
	link := NewLink(fake)

	// WHEN
	err := link.WriteRegister(0x42, 0x01)

	// THEN
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeTimeout))
	assert.Empty(t, fake.registerWrites())
}
