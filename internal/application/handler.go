package application

import (
	"fmt"
	"strconv"
	"strings"

	"smarthome-sim/internal/domain"
)

func (s *Session) apply(intent domain.Intent) (string, error) {
	switch intent.Action {
	case domain.ActionGetStatus:
		return s.home.Status().String(), nil
	case domain.ActionUnknown:
		return "", unrecognized(intent)
	}

	switch intent.Device {
	case domain.DeviceTypeLight:
		return s.applyLight(intent)
	case domain.DeviceTypeFan:
		return s.applyFan(intent)
	case domain.DeviceTypeThermostat:
		return s.applyThermostat(intent)
	default:
		return "", unrecognized(intent)
	}
}

func unrecognized(intent domain.Intent) error {
	if intent.RawText != "" {
		return fmt.Errorf("%w: '%s'", domain.ErrUnrecognized, intent.RawText)
	}
	return domain.ErrUnrecognized
}

func (s *Session) applyLight(intent domain.Intent) (string, error) {
	action := intent.Action
	if action == domain.ActionSet {
		on, err := parseOnOff(intent.Param)
		if err != nil {
			return "", fmt.Errorf("light: %w", err)
		}
		action = domain.ActionTurnOff
		if on {
			action = domain.ActionTurnOn
		}
	}

	switch action {
	case domain.ActionTurnOn:
		s.home.SetLight(true)
		return "Light is now ON", nil
	case domain.ActionTurnOff:
		s.home.SetLight(false)
		return "Light is now OFF", nil
	default:
		return "", unsupported(intent)
	}
}

func (s *Session) applyFan(intent domain.Intent) (string, error) {
	switch intent.Action {
	case domain.ActionSet:
		st, err := s.home.SetFan(intent.Param)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Fan speed set to %s", st.Fan.Speed), nil
	case domain.ActionTurnOn:
		if _, err := s.home.SetFan(string(domain.FanSpeedLow)); err != nil {
			return "", err
		}
		return "Fan is now ON (set to low)", nil
	case domain.ActionTurnOff:
		if _, err := s.home.SetFan(string(domain.FanSpeedOff)); err != nil {
			return "", err
		}
		return "Fan is now OFF", nil
	default:
		return "", unsupported(intent)
	}
}

func (s *Session) applyThermostat(intent domain.Intent) (string, error) {
	switch intent.Action {
	case domain.ActionSet:
		temp, err := strconv.Atoi(strings.TrimSpace(intent.Param))
		if err != nil {
			return "", fmt.Errorf("%w: temperature '%s' is not a whole number", domain.ErrInvalidValue, intent.Param)
		}
		st, err := s.home.SetThermostat(temp)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Thermostat set to %d°C", st.Thermostat.Temperature), nil
	case domain.ActionTurnOn:
		s.home.SetThermostatPower(true)
		return "Thermostat is now ON", nil
	case domain.ActionTurnOff:
		s.home.SetThermostatPower(false)
		return "Thermostat is now OFF", nil
	default:
		return "", unsupported(intent)
	}
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true":
		return true, nil
	case "off", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: '%s' (expected on or off)", domain.ErrInvalidValue, v)
	}
}

func unsupported(intent domain.Intent) error {
	return fmt.Errorf("%w: %s does not support %s", domain.ErrUnsupportedAction, intent.Device, intent.Action)
}
