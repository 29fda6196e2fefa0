package domain

import "errors"

var (
	ErrUnrecognized      = errors.New("could not understand the command")
	ErrInvalidSpeed      = errors.New("invalid fan speed")
	ErrOutOfRange        = errors.New("temperature out of range")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnsupportedAction = errors.New("unsupported action")
)
