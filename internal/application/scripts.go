package application

import "strings"

// DemoCommands is the scripted sequence run by --demo.
var DemoCommands = []string{
	"Turn on the fan",
	"set the fan speed to high",
	"set the thermostat to 24",
	"set the thermostat to 32",
	"Turn the light and the fan on",
	"invalid command",
	"Turn the light on and the set the temperature to 26",
}

// TestCommands is the fixed list run by --test.
var TestCommands = []string{
	"turn on the light",
	"set the fan speed to high",
	"set the thermostat to 24",
	"get the status",
	"turn off the light and set temperature to 20",
	"invalid command",
	"get the status",
}

func IsExitCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}
