package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Notifier delivers operator-facing text.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// ConsoleNotifier writes each message on its own line to W.
type ConsoleNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

// NewConsoleNotifier creates a notifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{W: w}
}

func (c *ConsoleNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.W, text); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

// Multi fans a message out to every notifier. All sinks are attempted;
// the joined error reports the ones that failed.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
