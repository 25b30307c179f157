package ec

import (
	"sync"
)

const (
	// MaxLevel is the highest manual fan level. Level 0 turns the fan off.
	MaxLevel = 5

	// fan3 reads exactly 8000 RPM while physically stopped, a known chip
	// artifact that is normalized to 0
	fan3PhantomRpm = 8000
)

var (
	defaultRampupCurve   = Curve{60, 70, 83, 95, 97}
	defaultRampdownCurve = Curve{40, 50, 80, 94, 96}

	// fan 3 leaves the factory with an earlier spin-up than the other two
	fan3RampupCurve   = Curve{20, 60, 83, 95, 97}
	fan3RampdownCurve = Curve{0, 50, 80, 94, 96}
)

// FanCurveState is the software-held configuration of a single fan. The mode
// field is the only place where "fixed" and "curve" are told apart, the chip
// encodes both the same way.
type FanCurveState struct {
	Mode     FanMode
	Rampup   Curve
	Rampdown Curve
}

// Controller translates typed operations into register reads/writes and
// interprets the raw bytes. It is not safe for concurrent hardware access,
// all operations have to be funneled through the CommandQueue.
type Controller struct {
	link *Link

	// guards fans; never hold this across a hardware access
	mu   sync.Mutex
	fans [FanCount]FanCurveState
}

func NewController(ports PortIO) *Controller {
	c := &Controller{link: NewLink(ports)}
	for i := range c.fans {
		c.fans[i] = FanCurveState{
			Mode:     FanModeAuto,
			Rampup:   defaultRampupCurve,
			Rampdown: defaultRampdownCurve,
		}
	}
	c.fans[2].Rampup = fan3RampupCurve
	c.fans[2].Rampdown = fan3RampdownCurve
	return c
}

// Execute runs a single operation to completion. Validation happens before
// any hardware access.
func (c *Controller) Execute(op Operation) (Result, error) {
	switch op.Kind {
	case OpGetFirmwareVersion:
		return c.getFirmwareVersion()
	case OpGetApuPowerMode:
		return c.getApuPowerMode()
	case OpSetApuPowerMode:
		return c.setApuPowerMode(op.Power)
	case OpGetApuTemperature:
		return c.getApuTemperature()
	case OpGetFanRpm:
		return c.getFanRpm(op.FanID)
	case OpGetFanMode:
		return c.getFanMode(op.FanID)
	case OpSetFanMode:
		return c.setFanMode(op.FanID, op.Mode)
	case OpGetFanLevel:
		return c.getFanLevel(op.FanID)
	case OpSetFanLevel:
		return c.setFanLevel(op.FanID, op.Level)
	case OpGetFanRampupCurve:
		return c.getCurve(op.FanID, true)
	case OpSetFanRampupCurve:
		return c.setCurve(op.FanID, op.Curve, true)
	case OpGetFanRampdownCurve:
		return c.getCurve(op.FanID, false)
	case OpSetFanRampdownCurve:
		return c.setCurve(op.FanID, op.Curve, false)
	default:
		return Result{}, invalidInputf("unknown operation kind: %d", op.Kind)
	}
}

// CurveState returns a copy of the software-held state of the given fan.
func (c *Controller) CurveState(fanID int) (FanCurveState, error) {
	if fanID < 1 || fanID > FanCount {
		return FanCurveState{}, invalidInputf("invalid fan id: %d", fanID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fans[fanID-1], nil
}

// HasCurveFans reports whether at least one fan is in curve mode.
func (c *Controller) HasCurveFans() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fan := range c.fans {
		if fan.Mode == FanModeCurve {
			return true
		}
	}
	return false
}

func (c *Controller) getFirmwareVersion() (Result, error) {
	major, err := c.link.ReadRegister(regFirmwareMajor)
	if err != nil {
		return Result{}, err
	}
	minor, err := c.link.ReadRegister(regFirmwareMinor)
	if err != nil {
		return Result{}, err
	}

	// all-zero and all-0xFF both mean "no firmware detected"
	if (major == 0x00 && minor == 0x00) || (major == 0xFF && minor == 0xFF) {
		return Result{}, unexpectedValuef("invalid firmware version %d.%d", major, minor)
	}

	return Result{Firmware: FirmwareVersion{Major: major, Minor: minor}}, nil
}

func (c *Controller) getApuPowerMode() (Result, error) {
	value, err := c.link.ReadRegister(regApuPowerMode)
	if err != nil {
		return Result{}, err
	}
	mode, err := powerModeFromRegister(value)
	if err != nil {
		return Result{}, err
	}
	return Result{Power: mode}, nil
}

func (c *Controller) setApuPowerMode(mode PowerMode) (Result, error) {
	if err := c.link.WriteRegister(regApuPowerMode, mode.registerValue()); err != nil {
		return Result{}, err
	}
	return Result{Power: mode}, nil
}

func (c *Controller) getApuTemperature() (Result, error) {
	temp, err := c.link.ReadRegister(regApuTemperature)
	if err != nil {
		return Result{}, err
	}
	return Result{Temperature: temp}, nil
}

func (c *Controller) getFanRpm(fanID int) (Result, error) {
	high, low, err := fanSpeedRegisters(fanID)
	if err != nil {
		return Result{}, err
	}

	highValue, err := c.link.ReadRegister(high)
	if err != nil {
		return Result{}, err
	}
	lowValue, err := c.link.ReadRegister(low)
	if err != nil {
		return Result{}, err
	}

	rpm := uint16(highValue)<<8 | uint16(lowValue)
	if fanID == 3 && rpm == fan3PhantomRpm {
		rpm = 0
	}

	return Result{Rpm: rpm}, nil
}

func (c *Controller) getFanMode(fanID int) (Result, error) {
	modeReg, err := fanModeRegister(fanID)
	if err != nil {
		return Result{}, err
	}
	base, err := fanBase(fanID)
	if err != nil {
		return Result{}, err
	}

	value, err := c.link.ReadRegister(modeReg)
	if err != nil {
		return Result{}, err
	}

	switch value - base {
	case 0:
		return Result{Mode: FanModeAuto}, nil
	case 1:
		// fixed and curve share this encoding, only the software state
		// knows which one is active
		c.mu.Lock()
		stored := c.fans[fanID-1].Mode
		c.mu.Unlock()
		if stored == FanModeCurve {
			return Result{Mode: FanModeCurve}, nil
		}
		return Result{Mode: FanModeFixed}, nil
	default:
		return Result{}, unexpectedValuef("unknown fan mode: 0x%02X", value)
	}
}

func (c *Controller) setFanMode(fanID int, mode FanMode) (Result, error) {
	modeReg, err := fanModeRegister(fanID)
	if err != nil {
		return Result{}, err
	}
	base, err := fanBase(fanID)
	if err != nil {
		return Result{}, err
	}

	value := base
	if mode != FanModeAuto {
		value = base + 1
	}

	c.mu.Lock()
	c.fans[fanID-1].Mode = mode
	rampup := c.fans[fanID-1].Rampup
	c.mu.Unlock()

	if err := c.link.WriteRegister(modeReg, value); err != nil {
		return Result{}, err
	}

	// entering curve mode picks a starting level from the current
	// temperature so the monitor doesn't have to climb from zero
	if mode == FanModeCurve {
		temp, err := c.link.ReadRegister(regApuTemperature)
		if err == nil {
			level := initialCurveLevel(temp, rampup)
			if err := c.writeFanLevel(fanID, level); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{Mode: mode}, nil
}

// initialCurveLevel returns the level belonging to the highest ramp-up
// threshold at or below the given temperature, 0 if none is reached.
func initialCurveLevel(temp uint8, rampup Curve) int {
	for level := MaxLevel; level >= 1; level-- {
		if temp >= rampup[level-1] {
			return level
		}
	}
	return 0
}

func (c *Controller) getFanLevel(fanID int) (Result, error) {
	modeReg, err := fanModeRegister(fanID)
	if err != nil {
		return Result{}, err
	}

	value, err := c.link.ReadRegister(modeReg + 1)
	if err != nil {
		return Result{}, err
	}

	return Result{Level: decodeLevel(value)}, nil
}

func (c *Controller) setFanLevel(fanID int, level int) (Result, error) {
	if level < 0 || level > MaxLevel {
		return Result{}, invalidInputf("fan level must be 0-%d, got %d", MaxLevel, level)
	}
	if err := c.writeFanLevel(fanID, level); err != nil {
		return Result{}, err
	}
	return Result{Level: level}, nil
}

func (c *Controller) writeFanLevel(fanID int, level int) error {
	modeReg, err := fanModeRegister(fanID)
	if err != nil {
		return err
	}
	base, err := fanBase(fanID)
	if err != nil {
		return err
	}
	return c.link.WriteRegister(modeReg+1, base+encodeLevel(level))
}

// encodeLevel maps a fan level to its register code.
func encodeLevel(level int) byte {
	switch level {
	case 1:
		return 0x2 // 20%
	case 2:
		return 0x3 // 40%
	case 3:
		return 0x4 // 60%
	case 4:
		return 0x5 // 80%
	case 5:
		return 0x6 // 100%
	default:
		return 0x7 // off
	}
}

// decodeLevel maps a level register code back to a level. Unknown codes
// decode to 0 (off) on purpose, the chip occasionally reports transient
// garbage here.
func decodeLevel(value byte) int {
	switch value & 0xF {
	case 0x2:
		return 1
	case 0x3:
		return 2
	case 0x4:
		return 3
	case 0x5:
		return 4
	case 0x6:
		return 5
	default:
		return 0
	}
}

func (c *Controller) getCurve(fanID int, rampup bool) (Result, error) {
	if fanID < 1 || fanID > FanCount {
		return Result{}, invalidInputf("invalid fan id: %d", fanID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rampup {
		return Result{Curve: c.fans[fanID-1].Rampup}, nil
	}
	return Result{Curve: c.fans[fanID-1].Rampdown}, nil
}

func (c *Controller) setCurve(fanID int, curve Curve, rampup bool) (Result, error) {
	if fanID < 1 || fanID > FanCount {
		return Result{}, invalidInputf("invalid fan id: %d", fanID)
	}
	if err := curve.Validate(); err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rampup {
		c.fans[fanID-1].Rampup = curve
	} else {
		c.fans[fanID-1].Rampdown = curve
	}
	return Result{Curve: curve}, nil
}
