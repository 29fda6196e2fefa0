package domain

import "strings"

type Action string

const (
	ActionTurnOn    Action = "turn_on"
	ActionTurnOff   Action = "turn_off"
	ActionSet       Action = "set"
	ActionGetStatus Action = "get_status"
	ActionUnknown   Action = "unknown"
)

// ParseAction maps a model- or user-supplied action name onto a known Action.
// Anything unrecognized becomes ActionUnknown.
func ParseAction(s string) Action {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionTurnOn, ActionTurnOff, ActionSet, ActionGetStatus:
		return a
	default:
		return ActionUnknown
	}
}

// Intent is one device mutation or query derived from a line of text.
type Intent struct {
	Action  Action
	Device  DeviceType
	Param   string
	RawText string
}

func (i Intent) String() string {
	var sb strings.Builder
	sb.WriteString(string(i.Action))
	if i.Device != "" {
		sb.WriteString(" ")
		sb.WriteString(string(i.Device))
	}
	if i.Param != "" {
		sb.WriteString("=")
		sb.WriteString(i.Param)
	}
	return sb.String()
}
