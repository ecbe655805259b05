package engine

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned by any mutating command issued while the
// stall is not operating. Callers are expected to surface it, not swallow it.
var ErrSessionClosed = errors.New("business session is closed")

// ConfigError is a fatal misconfiguration detected at session construction.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// CustomerNotFoundError is returned by commands and queries that require an
// existing, known customer. Graceful-degradation paths (the completion
// fallback) never return it.
type CustomerNotFoundError struct {
	CustomerID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %q not found", e.CustomerID)
}

// RecipeNotFoundError is returned when an order names a recipe that is not
// on the configured menu.
type RecipeNotFoundError struct {
	RecipeID string
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("recipe %q not on the menu", e.RecipeID)
}
