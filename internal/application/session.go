package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"smarthome-sim/internal/home"
)

type Session struct {
	source      CommandSource
	interpreter Interpreter
	home        *home.Home
	reporter    Reporter
	logger      *slog.Logger
}

func NewSession(
	source CommandSource,
	interpreter Interpreter,
	h *home.Home,
	reporter Reporter,
	logger *slog.Logger,
) *Session {
	return &Session{
		source:      source,
		interpreter: interpreter,
		home:        h,
		reporter:    reporter,
		logger:      logger.With("session", uuid.NewString()),
	}
}

// Run processes instructions until the source is exhausted, the user asks to
// exit, or ctx is cancelled. Per-command failures are reported, not returned.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("starting command source",
		"source", s.source.Name(),
		"interpreter", s.interpreter.Name(),
	)
	if err := s.source.Start(ctx); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	defer func() {
		if err := s.source.Stop(); err != nil {
			s.logger.Debug("stopping source", "source", s.source.Name(), "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text, err := s.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("command source exhausted", "source", s.source.Name())
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if IsExitCommand(text) {
			s.logger.Info("exit requested")
			return nil
		}

		response := s.Handle(ctx, text)
		if err := s.reporter.Report(ctx, response); err != nil {
			s.logger.Error("reporting response", "error", err)
		}
	}
}

// Handle interprets text and applies every resulting intent in order. The
// returned message has one line per intent; failed intents yield an
// "Error: ..." line and do not stop the ones after them.
func (s *Session) Handle(ctx context.Context, text string) string {
	intents, err := s.interpreter.Interpret(ctx, text)
	if err != nil {
		s.logger.Warn("interpreting command", "text", text, "error", err)
		return errorLine(err)
	}

	s.logger.Debug("parsed intents", "text", text, "count", len(intents))

	responses := make([]string, 0, len(intents))
	for _, intent := range intents {
		msg, err := s.apply(intent)
		if err != nil {
			s.logger.Debug("applying intent", "intent", intent.String(), "error", err)
			responses = append(responses, errorLine(err))
			continue
		}
		responses = append(responses, msg)
	}

	return strings.Join(responses, "\n")
}

func errorLine(err error) string {
	return "Error: " + err.Error()
}
