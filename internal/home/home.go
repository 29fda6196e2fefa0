// Package home holds the in-memory state of the simulated devices.
package home

import (
	"fmt"

	"smarthome-sim/internal/domain"
)

// Home owns the light, fan and thermostat for the lifetime of a session.
// It is not safe for concurrent use; the session loop is its only writer.
type Home struct {
	light      domain.Light
	fan        domain.Fan
	thermostat domain.Thermostat
}

// New returns a home with the light off, the fan off and the thermostat
// off at the default temperature.
func New() *Home {
	return &Home{
		fan:        domain.Fan{Speed: domain.FanSpeedOff},
		thermostat: domain.Thermostat{Temperature: domain.DefaultTemperature},
	}
}

func (h *Home) SetLight(on bool) domain.Status {
	h.light.On = on
	return h.Status()
}

// SetFan leaves the fan untouched when speed is not one of domain.FanSpeeds.
func (h *Home) SetFan(speed string) (domain.Status, error) {
	s, err := domain.ParseFanSpeed(speed)
	if err != nil {
		return h.Status(), err
	}
	h.fan.Speed = s
	return h.Status(), nil
}

// SetThermostat rejects temperatures outside [MinTemperature, MaxTemperature]
// instead of clamping them. A successful set also switches the thermostat on.
func (h *Home) SetThermostat(temperature int) (domain.Status, error) {
	if temperature < domain.MinTemperature || temperature > domain.MaxTemperature {
		return h.Status(), fmt.Errorf("%w: %d°C is outside %d-%d°C",
			domain.ErrOutOfRange, temperature, domain.MinTemperature, domain.MaxTemperature)
	}
	h.thermostat.Temperature = temperature
	h.thermostat.On = true
	return h.Status(), nil
}

func (h *Home) SetThermostatPower(on bool) domain.Status {
	h.thermostat.On = on
	return h.Status()
}

func (h *Home) Status() domain.Status {
	return domain.Status{
		Light:      h.light,
		Fan:        h.fan,
		Thermostat: h.thermostat,
	}
}
