// Package llmintent builds the instruction prompt shared by every
// model-backed interpreter and turns raw model output back into intents.
//
// Models are asked for a JSON list of {"action","device","param"} objects.
// Output that does not contain such a list is reported as
// domain.ErrUnrecognized; it never panics on malformed text.
package llmintent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"smarthome-sim/internal/domain"
)

// SystemPrompt is sent as the system/instruction part of the conversation.
const SystemPrompt = `You are a helpful assistant that MUST ONLY respond with a JSON list of JSON objects. Do not include any explanations, greetings, or any other extra text.

Your task is to parse the following smart home command and return it as a JSON list of JSON objects.

Each JSON object in the list should represent a single action and have the following format:
{"action": "ACTION", "device": "DEVICE", "param": OPTIONAL_PARAMETER}

Where:
- ACTION can be one of: turn_on, turn_off, set, get_status.
- DEVICE can be one of: light, fan, thermostat.
- PARAM is only needed for the 'set' action (e.g., a speed like "low", "medium", "high" for the fan, or a temperature like "20" for the thermostat).

Here are some examples:
Command: Turn on the light
JSON: [{"action": "turn_on", "device": "light"}]

Command: Set the fan speed to low
JSON: [{"action": "set", "device": "fan", "param": "low"}]

Command: Set the temperature to 24
JSON: [{"action": "set", "device": "thermostat", "param": "24"}]

Command: Set temperature to 22
JSON: [{"action": "set", "device": "thermostat", "param": "22"}]

Command: Turn off the light and set temperature to 24
JSON: [{"action": "turn_off", "device": "light"}, {"action": "set", "device": "thermostat", "param": "24"}]

Command: Get the status
JSON: [{"action": "get_status"}]

Command: Turn on the fan and set the thermostat to 20
JSON: [{"action": "turn_on", "device": "fan"}, {"action": "set", "device": "thermostat", "param": "20"}]

If you cannot parse the command, return an empty JSON list: []`

// UserPrompt wraps the user's command for the model.
func UserPrompt(command string) string {
	return fmt.Sprintf("Now, parse the command: %q and return the JSON list of JSON objects:", command)
}

type rawIntent struct {
	Action string `json:"action"`
	Device string `json:"device"`
	Param  any    `json:"param"`
}

// Parse extracts the first JSON list of intents from a model response.
// text is the original command, kept on intents the model could not map.
func Parse(response, text string) ([]domain.Intent, error) {
	raws, err := extractList(response)
	if err != nil {
		return nil, err
	}

	intents := make([]domain.Intent, 0, len(raws))
	recognized := 0
	for _, r := range raws {
		intent := toIntent(r, text)
		if intent.Action != domain.ActionUnknown {
			recognized++
		}
		intents = append(intents, intent)
	}

	if recognized == 0 {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrUnrecognized, text)
	}

	return intents, nil
}

func extractList(response string) ([]rawIntent, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var lastErr error
	for offset := 0; offset < len(cleaned); {
		idx := strings.IndexByte(cleaned[offset:], '[')
		if idx < 0 {
			break
		}
		start := offset + idx

		var raws []rawIntent
		dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
		if err := dec.Decode(&raws); err != nil {
			lastErr = err
			offset = start + 1
			continue
		}

		if len(raws) == 0 {
			return nil, fmt.Errorf("%w: model returned an empty list", domain.ErrUnrecognized)
		}
		return raws, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: parsing model JSON: %v", domain.ErrUnrecognized, lastErr)
	}
	return nil, fmt.Errorf("%w: no JSON list in model response", domain.ErrUnrecognized)
}

func toIntent(r rawIntent, text string) domain.Intent {
	action := domain.ParseAction(r.Action)
	if action == domain.ActionGetStatus {
		return domain.Intent{Action: action, RawText: text}
	}

	device, ok := domain.ParseDeviceType(r.Device)
	if !ok || action == domain.ActionUnknown {
		return domain.Intent{Action: domain.ActionUnknown, RawText: text}
	}

	return domain.Intent{
		Action:  action,
		Device:  device,
		Param:   paramString(r.Param),
		RawText: text,
	}
}

func paramString(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "on"
		}
		return "off"
	default:
		return fmt.Sprint(v)
	}
}
