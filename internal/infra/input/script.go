package input

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Script replays a fixed list of commands. When an echo writer is set each
// command is printed before it is handed out, and delay is waited between
// consecutive commands.
type Script struct {
	name     string
	commands []string
	delay    time.Duration
	echo     io.Writer
	index    int
}

func NewScript(name string, commands []string) *Script {
	return &Script{
		name:     name,
		commands: append([]string(nil), commands...),
	}
}

func (s *Script) WithDelay(d time.Duration) *Script {
	s.delay = d
	return s
}

func (s *Script) WithEcho(w io.Writer) *Script {
	s.echo = w
	return s
}

func (s *Script) Name() string {
	return s.name
}

func (s *Script) Start(_ context.Context) error {
	s.index = 0
	return nil
}

func (s *Script) Stop() error {
	return nil
}

func (s *Script) Next(ctx context.Context) (string, error) {
	if s.index >= len(s.commands) {
		return "", io.EOF
	}

	if s.index > 0 && s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	cmd := s.commands[s.index]
	s.index++

	if s.echo != nil {
		fmt.Fprintf(s.echo, "\nExecuting command: %s\n", cmd)
	}

	return cmd, nil
}
