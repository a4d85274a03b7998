// Package clipboard copies exported trees to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Status is the transient outcome of the last copy.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusCopied Status = "copied"
	StatusFailed Status = "failed"
)

// Copier writes text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies through the operating system clipboard.
type System struct{}

// Copy implements Copier.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Func adapts a plain function to Copier.
type Func func(text string) error

// Copy implements Copier.
func (f Func) Copy(text string) error { return f(text) }
