// Package notify delivers reminder notifications to the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Notifier shows a single notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, title, body string) error

func (f Func) Notify(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}

// Console prints notifications as a colored title line followed by the body.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	title *color.Color
}

// NewConsole writes to w. Color follows fatih/color's NoColor setting.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, title: color.New(color.FgYellow, color.Bold)}
}

func (c *Console) Notify(_ context.Context, title, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.title.Fprintln(c.w, title); err != nil {
		return fmt.Errorf("notify: console: %w", err)
	}
	if _, err := fmt.Fprintf(c.w, "  %s\n", body); err != nil {
		return fmt.Errorf("notify: console: %w", err)
	}
	return nil
}

// Log records notifications as info events.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Notify(_ context.Context, title, body string) error {
	l.Logger.Info().Str("title", title).Str("body", body).Msg("notification")
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
