package application_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarthome-sim/internal/application"
	"smarthome-sim/internal/domain"
	"smarthome-sim/internal/home"
	"smarthome-sim/internal/infra/keyword"
)

type mockSource struct {
	commands []string
	index    int
	started  bool
	stopped  bool
	stopErr  error
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) Start(_ context.Context) error {
	m.started = true
	return nil
}

func (m *mockSource) Stop() error {
	m.stopped = true
	return m.stopErr
}

func (m *mockSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.index >= len(m.commands) {
		return "", io.EOF
	}
	cmd := m.commands[m.index]
	m.index++
	return cmd, nil
}

type mockInterpreter struct {
	intents map[string][]domain.Intent
	err     error
}

func (m *mockInterpreter) Name() string { return "mock" }

func (m *mockInterpreter) Interpret(_ context.Context, text string) ([]domain.Intent, error) {
	if m.err != nil {
		return nil, m.err
	}
	if intents, ok := m.intents[text]; ok {
		return intents, nil
	}
	return nil, domain.ErrUnrecognized
}

type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) Report(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCommands(t *testing.T, interp application.Interpreter, commands []string) (*home.Home, *recordingReporter) {
	t.Helper()
	h := home.New()
	reporter := &recordingReporter{}
	source := &mockSource{commands: commands}

	session := application.NewSession(source, interp, h, reporter, discardLogger())
	require.NoError(t, session.Run(context.Background()))
	assert.True(t, source.started)
	assert.True(t, source.stopped)

	return h, reporter
}

func TestSession_TestCommands(t *testing.T) {
	h, reporter := runCommands(t, keyword.New(), application.TestCommands)

	require.Len(t, reporter.messages, len(application.TestCommands))
	assert.Equal(t, "Light is now ON", reporter.messages[0])
	assert.Equal(t, "Fan speed set to high", reporter.messages[1])
	assert.Equal(t, "Thermostat set to 24°C", reporter.messages[2])
	assert.Equal(t, "light: ON\nfan: high\nthermostat: 24°C (ON)", reporter.messages[3])
	assert.Equal(t, "Light is now OFF\nThermostat set to 20°C", reporter.messages[4])
	assert.Contains(t, reporter.messages[5], "Error: could not understand the command")
	assert.Equal(t, "light: OFF\nfan: high\nthermostat: 20°C (ON)", reporter.messages[6])

	st := h.Status()
	assert.False(t, st.Light.On)
	assert.Equal(t, domain.FanSpeedHigh, st.Fan.Speed)
	assert.Equal(t, 20, st.Thermostat.Temperature)
}

func TestSession_DemoCommands(t *testing.T) {
	h, reporter := runCommands(t, keyword.New(), application.DemoCommands)

	require.Len(t, reporter.messages, len(application.DemoCommands))
	assert.Equal(t, "Fan is now ON (set to low)", reporter.messages[0])
	assert.Contains(t, reporter.messages[3], "Error: temperature out of range")
	assert.Equal(t, "Light is now ON\nFan is now ON (set to low)", reporter.messages[4])
	assert.Equal(t, "Light is now ON\nThermostat set to 26°C", reporter.messages[6])

	assert.Equal(t, domain.Status{
		Light:      domain.Light{On: true},
		Fan:        domain.Fan{Speed: domain.FanSpeedLow},
		Thermostat: domain.Thermostat{Temperature: 26, On: true},
	}, h.Status())
}

func TestSession_StopsOnExit(t *testing.T) {
	for _, exit := range []string{"exit", "QUIT", "  Exit  "} {
		h, reporter := runCommands(t, keyword.New(), []string{"turn on the light", exit, "turn off the light"})

		assert.Equal(t, []string{"Light is now ON"}, reporter.messages, exit)
		assert.True(t, h.Status().Light.On, exit)
	}
}

func TestSession_SkipsBlankLines(t *testing.T) {
	_, reporter := runCommands(t, keyword.New(), []string{"", "   ", "get the status"})

	assert.Len(t, reporter.messages, 1)
}

func TestSession_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := application.NewSession(
		&mockSource{commands: []string{"turn on the light"}},
		keyword.New(),
		home.New(),
		&application.NoopReporter{},
		discardLogger(),
	)

	err := session.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSession_StopErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	source := &mockSource{
		commands: []string{"turn on the light"},
		stopErr:  errors.New("terminal already closed"),
	}

	session := application.NewSession(source, keyword.New(), home.New(), &application.NoopReporter{}, logger)

	require.NoError(t, session.Run(context.Background()))
	assert.True(t, source.stopped)
	assert.Contains(t, logs.String(), "stopping source")
	assert.Contains(t, logs.String(), "terminal already closed")
}

func TestSession_KeywordVerbAndDeviceResolution(t *testing.T) {
	h, reporter := runCommands(t, keyword.New(), []string{
		"turn on the light",
		"turn off the light on the porch",
		"turn the light on and set it to off",
		"turn the light off to save power",
	})

	assert.Equal(t, []string{
		"Light is now ON",
		"Light is now OFF",
		"Light is now ON\nLight is now OFF",
		"Light is now OFF",
	}, reporter.messages)
	assert.False(t, h.Status().Light.On)
	assert.Equal(t, domain.FanSpeedOff, h.Status().Fan.Speed)
}

func TestSession_HandleContinuesAfterFailedIntent(t *testing.T) {
	interp := &mockInterpreter{
		intents: map[string][]domain.Intent{
			"mixed": {
				{Action: domain.ActionSet, Device: domain.DeviceTypeFan, Param: "turbo"},
				{Action: domain.ActionTurnOn, Device: domain.DeviceTypeLight},
			},
		},
	}
	h := home.New()
	session := application.NewSession(&mockSource{}, interp, h, &application.NoopReporter{}, discardLogger())

	got := session.Handle(context.Background(), "mixed")

	assert.Equal(t, "Error: invalid fan speed 'turbo'. Valid speeds are: off, low, medium, high\nLight is now ON", got)
	assert.Equal(t, domain.FanSpeedOff, h.Status().Fan.Speed)
	assert.True(t, h.Status().Light.On)
}

func TestSession_HandleErrors(t *testing.T) {
	tests := []struct {
		name   string
		intent domain.Intent
		want   string
	}{
		{
			name:   "non-integer temperature",
			intent: domain.Intent{Action: domain.ActionSet, Device: domain.DeviceTypeThermostat, Param: "22.5"},
			want:   "Error: invalid value: temperature '22.5' is not a whole number",
		},
		{
			name:   "temperature too low",
			intent: domain.Intent{Action: domain.ActionSet, Device: domain.DeviceTypeThermostat, Param: "17"},
			want:   "Error: temperature out of range: 17°C is outside 18-30°C",
		},
		{
			name:   "light colour",
			intent: domain.Intent{Action: domain.ActionSet, Device: domain.DeviceTypeLight, Param: "blue"},
			want:   "Error: light: invalid value: 'blue' (expected on or off)",
		},
		{
			name:   "unknown clause",
			intent: domain.Intent{Action: domain.ActionUnknown, RawText: "sing a song"},
			want:   "Error: could not understand the command: 'sing a song'",
		},
		{
			name:   "missing device",
			intent: domain.Intent{Action: domain.ActionTurnOn},
			want:   "Error: could not understand the command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp := &mockInterpreter{intents: map[string][]domain.Intent{"cmd": {tt.intent}}}
			h := home.New()
			before := h.Status()
			session := application.NewSession(&mockSource{}, interp, h, &application.NoopReporter{}, discardLogger())

			assert.Equal(t, tt.want, session.Handle(context.Background(), "cmd"))
			assert.Equal(t, before, h.Status())
		})
	}
}

func TestSession_HandleSetLightOnOff(t *testing.T) {
	interp := &mockInterpreter{intents: map[string][]domain.Intent{
		"on":  {{Action: domain.ActionSet, Device: domain.DeviceTypeLight, Param: "on"}},
		"off": {{Action: domain.ActionSet, Device: domain.DeviceTypeLight, Param: "OFF"}},
	}}
	h := home.New()
	session := application.NewSession(&mockSource{}, interp, h, &application.NoopReporter{}, discardLogger())

	assert.Equal(t, "Light is now ON", session.Handle(context.Background(), "on"))
	assert.True(t, h.Status().Light.On)
	assert.Equal(t, "Light is now OFF", session.Handle(context.Background(), "off"))
	assert.False(t, h.Status().Light.On)
}

func TestSession_HandleThermostatPower(t *testing.T) {
	interp := &mockInterpreter{intents: map[string][]domain.Intent{
		"on":  {{Action: domain.ActionTurnOn, Device: domain.DeviceTypeThermostat}},
		"off": {{Action: domain.ActionTurnOff, Device: domain.DeviceTypeThermostat}},
	}}
	h := home.New()
	session := application.NewSession(&mockSource{}, interp, h, &application.NoopReporter{}, discardLogger())

	assert.Equal(t, "Thermostat is now ON", session.Handle(context.Background(), "on"))
	assert.True(t, h.Status().Thermostat.On)
	assert.Equal(t, "Thermostat is now OFF", session.Handle(context.Background(), "off"))
	assert.False(t, h.Status().Thermostat.On)
}

func TestSession_HandleInterpreterError(t *testing.T) {
	interp := &mockInterpreter{err: errors.New("ollama API error 500: boom")}
	h := home.New()
	before := h.Status()
	session := application.NewSession(&mockSource{}, interp, h, &application.NoopReporter{}, discardLogger())

	assert.Equal(t, "Error: ollama API error 500: boom", session.Handle(context.Background(), "turn on the light"))
	assert.Equal(t, before, h.Status())
}

func TestSession_StatusDoesNotMutate(t *testing.T) {
	h := home.New()
	_, err := h.SetFan("medium")
	require.NoError(t, err)
	before := h.Status()

	session := application.NewSession(&mockSource{}, keyword.New(), h, &application.NoopReporter{}, discardLogger())
	got := session.Handle(context.Background(), "get the status")

	assert.Equal(t, before.String(), got)
	assert.Equal(t, before, h.Status())
}

func TestSession_Idempotent(t *testing.T) {
	once, _ := runCommands(t, keyword.New(), []string{"set the fan speed to medium"})
	twice, _ := runCommands(t, keyword.New(), []string{"set the fan speed to medium", "set the fan speed to medium"})

	assert.Equal(t, once.Status(), twice.Status())
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	r := application.NewWriterReporter(&buf, "Response: ")

	require.NoError(t, r.Report(context.Background(), "Light is now ON"))
	assert.Equal(t, "Response: Light is now ON\n", buf.String())
}
