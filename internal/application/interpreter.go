package application

import (
	"context"
	"fmt"
	"log/slog"

	"smarthome-sim/internal/domain"
)

// Interpreter turns one line of free text into device intents. It returns an
// error wrapping domain.ErrUnrecognized when nothing could be derived.
type Interpreter interface {
	Interpret(ctx context.Context, text string) ([]domain.Intent, error)
	Name() string
}

// Pinger is implemented by interpreters that depend on an external model.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyInterpreter checks that primary can serve requests. If it cannot and a
// fallback is given, the fallback is returned instead; otherwise startup fails.
func ReadyInterpreter(ctx context.Context, primary, fallback Interpreter, logger *slog.Logger) (Interpreter, error) {
	p, ok := primary.(Pinger)
	if !ok {
		return primary, nil
	}

	err := p.Ping(ctx)
	if err == nil {
		return primary, nil
	}

	if fallback == nil {
		return nil, fmt.Errorf("%s interpreter unavailable: %w (run with --test or --interpreter keyword)", primary.Name(), err)
	}

	logger.Warn("model interpreter unavailable, falling back",
		"interpreter", primary.Name(),
		"fallback", fallback.Name(),
		"error", err,
	)
	return fallback, nil
}
