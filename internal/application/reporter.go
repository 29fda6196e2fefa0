package application

import (
	"context"
	"fmt"
	"io"
)

type Reporter interface {
	Report(ctx context.Context, message string) error
}

type NoopReporter struct{}

func (n *NoopReporter) Report(_ context.Context, _ string) error {
	return nil
}

// WriterReporter prints each response on its own block, preceded by prefix.
type WriterReporter struct {
	w      io.Writer
	prefix string
}

func NewWriterReporter(w io.Writer, prefix string) *WriterReporter {
	return &WriterReporter{w: w, prefix: prefix}
}

func (r *WriterReporter) Report(_ context.Context, message string) error {
	if _, err := fmt.Fprintf(r.w, "%s%s\n", r.prefix, message); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
