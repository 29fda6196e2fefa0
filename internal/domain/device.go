package domain

import (
	"fmt"
	"strings"
)

type DeviceType string

const (
	DeviceTypeLight      DeviceType = "light"
	DeviceTypeFan        DeviceType = "fan"
	DeviceTypeThermostat DeviceType = "thermostat"
)

// ParseDeviceType returns false for anything that is not one of the simulated devices.
func ParseDeviceType(s string) (DeviceType, bool) {
	switch d := DeviceType(strings.ToLower(strings.TrimSpace(s))); d {
	case DeviceTypeLight, DeviceTypeFan, DeviceTypeThermostat:
		return d, true
	default:
		return "", false
	}
}

type FanSpeed string

const (
	FanSpeedOff    FanSpeed = "off"
	FanSpeedLow    FanSpeed = "low"
	FanSpeedMedium FanSpeed = "medium"
	FanSpeedHigh   FanSpeed = "high"
)

// FanSpeeds lists the valid speeds in ascending order.
var FanSpeeds = []FanSpeed{FanSpeedOff, FanSpeedLow, FanSpeedMedium, FanSpeedHigh}

func ParseFanSpeed(s string) (FanSpeed, error) {
	speed := FanSpeed(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range FanSpeeds {
		if speed == valid {
			return speed, nil
		}
	}
	return "", fmt.Errorf("%w '%s'. Valid speeds are: %s", ErrInvalidSpeed, s, joinSpeeds())
}

func joinSpeeds() string {
	names := make([]string, len(FanSpeeds))
	for i, s := range FanSpeeds {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

const (
	MinTemperature     = 18
	MaxTemperature     = 30
	DefaultTemperature = 22
)

type Light struct {
	On bool
}

type Fan struct {
	Speed FanSpeed
}

type Thermostat struct {
	Temperature int
	On          bool
}

// Status is a point-in-time copy of every device.
type Status struct {
	Light      Light
	Fan        Fan
	Thermostat Thermostat
}

func (s Status) String() string {
	return fmt.Sprintf("light: %s\nfan: %s\nthermostat: %d°C (%s)",
		onOff(s.Light.On),
		s.Fan.Speed,
		s.Thermostat.Temperature,
		onOff(s.Thermostat.On),
	)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
