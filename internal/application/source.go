package application

import "context"

// CommandSource yields instructions one at a time. Next returns io.EOF once
// the source has nothing more to give.
type CommandSource interface {
	Start(ctx context.Context) error
	Stop() error
	Next(ctx context.Context) (string, error)
	Name() string
}
