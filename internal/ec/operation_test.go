package ec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFanMode(t *testing.T) {
	for _, mode := range []FanMode{FanModeAuto, FanModeFixed, FanModeCurve} {
		parsed, err := ParseFanMode(mode.String())
		assert.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseFanMode("turbo")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParsePowerMode(t *testing.T) {
	for _, mode := range []PowerMode{PowerModeBalanced, PowerModePerformance, PowerModeQuiet} {
		parsed, err := ParsePowerMode(mode.String())
		assert.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParsePowerMode("eco")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCurveValidate(t *testing.T) {
	assert.NoError(t, Curve{0, 0, 0, 0, 0}.Validate())
	assert.NoError(t, Curve{60, 70, 83, 95, 100}.Validate())

	err := Curve{60, 70, 83, 95, 101}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFirmwareVersionString(t *testing.T) {
	// single digit minors are zero padded
	assert.Equal(t, "1.05", FirmwareVersion{Major: 1, Minor: 5}.String())
	assert.Equal(t, "2.00", FirmwareVersion{Major: 2, Minor: 0}.String())
	assert.Equal(t, "1.23", FirmwareVersion{Major: 1, Minor: 23}.String())
}
