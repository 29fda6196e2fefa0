package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chzyer/readline"
)

// Console reads commands interactively from the terminal.
type Console struct {
	rl        *readline.Instance
	stop      func() bool
	closeOnce sync.Once
	closeErr  error
}

func NewConsole(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("creating readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

func (c *Console) Name() string {
	return "console"
}

// Stdout returns a writer that does not clobber the prompt line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Start arranges for a pending Readline to return once ctx is done.
func (c *Console) Start(ctx context.Context) error {
	c.stop = context.AfterFunc(ctx, func() { c.close() })
	return nil
}

func (c *Console) Stop() error {
	if c.stop != nil {
		c.stop()
	}
	return c.close()
}

func (c *Console) close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.rl.Close()
	})
	return c.closeErr
}

// Next blocks on the next line. Ctrl-C and Ctrl-D both end the session with io.EOF.
func (c *Console) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := c.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("reading line: %w", err)
	}

	return line, nil
}
