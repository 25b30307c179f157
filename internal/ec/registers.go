package ec

// EC register map of the SU AXB35 chip revision, taken from the vendor's
// Linux driver. Addresses are fixed, the chip has no discovery mechanism.
const (
	regFirmwareMajor byte = 0x00
	regFirmwareMinor byte = 0x01

	regApuPowerMode   byte = 0x31
	regApuTemperature byte = 0x70

	regFan1SpeedHigh byte = 0x35
	regFan1SpeedLow  byte = 0x36
	regFan1Mode      byte = 0x21

	regFan2SpeedHigh byte = 0x37
	regFan2SpeedLow  byte = 0x38
	regFan2Mode      byte = 0x23

	regFan3SpeedHigh byte = 0x28
	regFan3SpeedLow  byte = 0x29
	regFan3Mode      byte = 0x25
)

// FanCount is the number of fans driven by this EC. Fan ids are 1-based.
const FanCount = 3

func fanSpeedRegisters(fanID int) (high byte, low byte, err error) {
	switch fanID {
	case 1:
		return regFan1SpeedHigh, regFan1SpeedLow, nil
	case 2:
		return regFan2SpeedHigh, regFan2SpeedLow, nil
	case 3:
		return regFan3SpeedHigh, regFan3SpeedLow, nil
	default:
		return 0, 0, invalidInputf("invalid fan id: %d", fanID)
	}
}

func fanModeRegister(fanID int) (byte, error) {
	switch fanID {
	case 1:
		return regFan1Mode, nil
	case 2:
		return regFan2Mode, nil
	case 3:
		return regFan3Mode, nil
	default:
		return 0, invalidInputf("invalid fan id: %d", fanID)
	}
}

// fanBase is the per-fan base value for the mode and level registers.
func fanBase(fanID int) (byte, error) {
	switch fanID {
	case 1:
		return 0x10, nil
	case 2:
		return 0x20, nil
	case 3:
		return 0x30, nil
	default:
		return 0, invalidInputf("invalid fan id: %d", fanID)
	}
}
