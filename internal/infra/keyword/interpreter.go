// Package keyword implements a deterministic interpreter based on
// case-insensitive keyword matching. It understands a small vocabulary of
// device names and verbs, and compound commands joined by "and".
package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"smarthome-sim/internal/domain"
)

var (
	conjunction = regexp.MustCompile(`\s+and\s+`)
	numeric     = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

var deviceWords = map[string]domain.DeviceType{
	"light":       domain.DeviceTypeLight,
	"lights":      domain.DeviceTypeLight,
	"lamp":        domain.DeviceTypeLight,
	"fan":         domain.DeviceTypeFan,
	"thermostat":  domain.DeviceTypeThermostat,
	"temperature": domain.DeviceTypeThermostat,
	"heating":     domain.DeviceTypeThermostat,
	"heater":      domain.DeviceTypeThermostat,
}

var setWords = map[string]bool{
	"set":    true,
	"change": true,
	"adjust": true,
}

type Interpreter struct{}

func New() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) Name() string {
	return "keyword"
}

// clause is the partial result of matching one conjunct.
type clause struct {
	raw    string
	tokens []string
	status bool
	device domain.DeviceType
	action domain.Action
	param  string
}

func (i *Interpreter) Interpret(_ context.Context, text string) ([]domain.Intent, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil, domain.ErrUnrecognized
	}

	parts := conjunction.Split(normalized, -1)
	clauses := make([]clause, 0, len(parts))
	for _, p := range parts {
		clauses = append(clauses, parseClause(p))
	}
	inherit(clauses)

	intents := make([]domain.Intent, 0, len(clauses))
	recognized := 0
	for _, c := range clauses {
		switch {
		case c.status:
			intents = append(intents, domain.Intent{Action: domain.ActionGetStatus, RawText: c.raw})
			recognized++
		case c.device != "" && c.action != "":
			intents = append(intents, domain.Intent{
				Action:  c.action,
				Device:  c.device,
				Param:   c.param,
				RawText: c.raw,
			})
			recognized++
		default:
			intents = append(intents, domain.Intent{Action: domain.ActionUnknown, RawText: c.raw})
		}
	}

	if recognized == 0 {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrUnrecognized, text)
	}

	return intents, nil
}

func parseClause(raw string) clause {
	c := clause{raw: strings.TrimSpace(raw)}
	c.tokens = tokenize(c.raw)

	// The first verb governs the clause. A "to" introducing a value is an
	// explicit slot and overrides an earlier switch verb.
	for i, tok := range c.tokens {
		switch {
		case tok == "status":
			c.status = true
		case tok == "to":
			if c.action == "" || (i+1 < len(c.tokens) && isValue(c.tokens[i+1])) {
				c.action = domain.ActionSet
			}
		case c.action != "":
			// verb already found
		case tok == "on":
			c.action = domain.ActionTurnOn
		case tok == "off":
			c.action = domain.ActionTurnOff
		case setWords[tok]:
			c.action = domain.ActionSet
		}
		if d, ok := deviceWords[tok]; ok && c.device == "" {
			c.device = d
		}
	}

	if c.status {
		c.action = ""
		return c
	}
	if c.action == domain.ActionSet {
		c.param = setValue(c.device, c.tokens)
	}

	return c
}

// inherit fills gaps left by conjunctions that share a verb or a device,
// such as "turn the light and the fan on" or "turn on the light and the fan".
func inherit(clauses []clause) {
	for i := range clauses {
		c := &clauses[i]
		if c.status {
			continue
		}

		if c.device != "" && c.action == "" {
			if i > 0 && isSwitch(clauses[i-1].action) {
				c.action = clauses[i-1].action
			} else {
				for j := i + 1; j < len(clauses); j++ {
					if isSwitch(clauses[j].action) {
						c.action = clauses[j].action
						break
					}
				}
			}
		}

		if c.action == "" || c.device != "" {
			continue
		}
		if i > 0 {
			c.device = clauses[i-1].device
		} else {
			c.device = impliedDevice(c.param)
		}
		if c.action == domain.ActionSet && c.device != "" {
			c.param = setValue(c.device, c.tokens)
		}
	}
}

func isSwitch(a domain.Action) bool {
	return a == domain.ActionTurnOn || a == domain.ActionTurnOff
}

func setValue(device domain.DeviceType, tokens []string) string {
	if device == domain.DeviceTypeThermostat || device == "" {
		for _, tok := range tokens {
			if n, ok := number(tok); ok {
				return n
			}
		}
	}

	for i, tok := range tokens {
		if tok == "to" && i+1 < len(tokens) {
			if n, ok := number(tokens[i+1]); ok {
				return n
			}
			return tokens[i+1]
		}
	}

	for _, tok := range tokens {
		switch device {
		case domain.DeviceTypeFan:
			if _, err := domain.ParseFanSpeed(tok); err == nil {
				return tok
			}
		case domain.DeviceTypeLight:
			if tok == "on" || tok == "off" {
				return tok
			}
		}
	}

	return ""
}

// isValue reports whether tok can fill a set slot.
func isValue(tok string) bool {
	if _, ok := number(tok); ok {
		return true
	}
	if tok == "on" || tok == "off" {
		return true
	}
	_, err := domain.ParseFanSpeed(tok)
	return err == nil
}

// impliedDevice guesses the device for "set it to 24" or "set it to high".
func impliedDevice(param string) domain.DeviceType {
	if param == "" {
		return ""
	}
	if numeric.MatchString(param) {
		return domain.DeviceTypeThermostat
	}
	if _, err := domain.ParseFanSpeed(param); err == nil {
		return domain.DeviceTypeFan
	}
	return ""
}

func number(tok string) (string, bool) {
	for _, suffix := range []string{"°c", "°", "c"} {
		if strings.HasSuffix(tok, suffix) {
			tok = strings.TrimSuffix(tok, suffix)
			break
		}
	}
	if numeric.MatchString(tok) {
		return tok, true
	}
	return "", false
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '-' && r != '.' && r != '°'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
