package source

import (
	"context"
	"fmt"
)

// Unimplemented is an embeddable base whose lifecycle operations fail with
// ErrUnimplemented. Sources embed it to stay compatible when the contract
// grows; any operation they forget to override then fails immediately and
// unambiguously instead of silently doing nothing.
type Unimplemented struct{}

// Run fails with ErrUnimplemented.
func (Unimplemented) Run(context.Context) error {
	return fmt.Errorf("run: %w", ErrUnimplemented)
}

// Finalize fails with ErrUnimplemented.
func (Unimplemented) Finalize() error {
	return fmt.Errorf("finalize: %w", ErrUnimplemented)
}
