package ec

import "fmt"

// FanMode describes how a fan level is chosen. The chip itself only knows
// "auto" vs "not auto"; Fixed and Curve share the same register encoding and
// are only told apart by software state, see Controller.
type FanMode int

const (
	FanModeAuto FanMode = iota
	FanModeFixed
	FanModeCurve
)

func (m FanMode) String() string {
	switch m {
	case FanModeAuto:
		return "auto"
	case FanModeFixed:
		return "fixed"
	case FanModeCurve:
		return "curve"
	default:
		return fmt.Sprintf("FanMode(%d)", int(m))
	}
}

func ParseFanMode(s string) (FanMode, error) {
	switch s {
	case "auto":
		return FanModeAuto, nil
	case "fixed":
		return FanModeFixed, nil
	case "curve":
		return FanModeCurve, nil
	default:
		return FanModeAuto, invalidInputf("invalid fan mode: %q", s)
	}
}

// PowerMode is the APU power profile.
type PowerMode int

const (
	PowerModeBalanced PowerMode = iota
	PowerModePerformance
	PowerModeQuiet
)

func (m PowerMode) String() string {
	switch m {
	case PowerModeBalanced:
		return "balanced"
	case PowerModePerformance:
		return "performance"
	case PowerModeQuiet:
		return "quiet"
	default:
		return fmt.Sprintf("PowerMode(%d)", int(m))
	}
}

func ParsePowerMode(s string) (PowerMode, error) {
	switch s {
	case "balanced":
		return PowerModeBalanced, nil
	case "performance":
		return PowerModePerformance, nil
	case "quiet":
		return PowerModeQuiet, nil
	default:
		return PowerModeBalanced, invalidInputf("invalid power mode: %q", s)
	}
}

func (m PowerMode) registerValue() byte {
	switch m {
	case PowerModePerformance:
		return 0x01
	case PowerModeQuiet:
		return 0x02
	default:
		return 0x00
	}
}

func powerModeFromRegister(value byte) (PowerMode, error) {
	switch value {
	case 0x00:
		return PowerModeBalanced, nil
	case 0x01:
		return PowerModePerformance, nil
	case 0x02:
		return PowerModeQuiet, nil
	default:
		return PowerModeBalanced, unexpectedValuef("unknown power mode: 0x%02X", value)
	}
}

// Curve holds the five temperature thresholds (°C) of a ramp-up or
// ramp-down curve. Curves are a software concept, the chip never sees them.
type Curve [5]uint8

func (c Curve) Validate() error {
	for _, temp := range c {
		if temp > 100 {
			return invalidInputf("curve temperature %d exceeds 100°C", temp)
		}
	}
	return nil
}

// FirmwareVersion is the two-byte EC firmware revision.
type FirmwareVersion struct {
	Major uint8 `json:"major"`
	Minor uint8 `json:"minor"`
}

func (v FirmwareVersion) String() string {
	if v.Minor < 10 {
		return fmt.Sprintf("%d.0%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// OpKind enumerates the operations the EC controller understands.
type OpKind int

const (
	OpGetFirmwareVersion OpKind = iota
	OpGetApuPowerMode
	OpSetApuPowerMode
	OpGetApuTemperature
	OpGetFanRpm
	OpGetFanMode
	OpSetFanMode
	OpGetFanLevel
	OpSetFanLevel
	OpGetFanRampupCurve
	OpSetFanRampupCurve
	OpGetFanRampdownCurve
	OpSetFanRampdownCurve
)

// Operation is a single typed request against the EC. Only the fields
// relevant for the Kind are set.
type Operation struct {
	Kind  OpKind
	FanID int
	Power PowerMode
	Mode  FanMode
	Level int
	Curve Curve
}

func GetFirmwareVersion() Operation {
	return Operation{Kind: OpGetFirmwareVersion}
}

func GetApuPowerMode() Operation {
	return Operation{Kind: OpGetApuPowerMode}
}

func SetApuPowerMode(mode PowerMode) Operation {
	return Operation{Kind: OpSetApuPowerMode, Power: mode}
}

func GetApuTemperature() Operation {
	return Operation{Kind: OpGetApuTemperature}
}

func GetFanRpm(fanID int) Operation {
	return Operation{Kind: OpGetFanRpm, FanID: fanID}
}

func GetFanMode(fanID int) Operation {
	return Operation{Kind: OpGetFanMode, FanID: fanID}
}

func SetFanMode(fanID int, mode FanMode) Operation {
	return Operation{Kind: OpSetFanMode, FanID: fanID, Mode: mode}
}

func GetFanLevel(fanID int) Operation {
	return Operation{Kind: OpGetFanLevel, FanID: fanID}
}

func SetFanLevel(fanID int, level int) Operation {
	return Operation{Kind: OpSetFanLevel, FanID: fanID, Level: level}
}

func GetFanRampupCurve(fanID int) Operation {
	return Operation{Kind: OpGetFanRampupCurve, FanID: fanID}
}

func SetFanRampupCurve(fanID int, curve Curve) Operation {
	return Operation{Kind: OpSetFanRampupCurve, FanID: fanID, Curve: curve}
}

func GetFanRampdownCurve(fanID int) Operation {
	return Operation{Kind: OpGetFanRampdownCurve, FanID: fanID}
}

func SetFanRampdownCurve(fanID int, curve Curve) Operation {
	return Operation{Kind: OpSetFanRampdownCurve, FanID: fanID, Curve: curve}
}

// Result carries the value produced by an Operation. Only the field
// matching the operation kind is meaningful.
type Result struct {
	Firmware    FirmwareVersion
	Power       PowerMode
	Temperature uint8
	Rpm         uint16
	Mode        FanMode
	Level       int
	Curve       Curve
}
