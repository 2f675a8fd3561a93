// Package domain holds sentinel errors shared across the engine.
package domain

import "errors"

var (
	// ErrUnknownModel signals that no configuration exists for a model.
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidConfig signals a malformed model configuration.
	ErrInvalidConfig = errors.New("invalid model configuration")
)
