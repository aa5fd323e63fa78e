// Package todos runs the todo subcommands.
package todos

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/todo"
)

var errNoApp = errors.New("can not run, no app")

// Add appends a todo and prints the active list.
type Add struct {
	App    *app.App
	Text   string
	ShowID bool
	Out    io.Writer
}

func (n *Add) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	if _, err := n.App.AddTodo(n.Text); err != nil {
		return err
	}
	return show(n.App, n.ShowID, n.Out)
}

// Toggle flips a todo between open and done.
type Toggle struct {
	App    *app.App
	ID     string
	ShowID bool
	Out    io.Writer
}

func (n *Toggle) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	before, ok := find(n.App.Todos().All(), n.ID)
	if !ok {
		return fmt.Errorf("no todo with id %q", n.ID)
	}
	if before.Keeped {
		return fmt.Errorf("todo %q is kept and can not change", n.ID)
	}
	n.App.ToggleTodo(n.ID)
	return show(n.App, n.ShowID, n.Out)
}

// Keep archives every completed todo.
type Keep struct {
	App    *app.App
	ShowID bool
	Out    io.Writer
}

func (n *Keep) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	n.App.KeepTodos()
	return show(n.App, n.ShowID, n.Out)
}

// List prints the active todos, or every todo when All is set.
type List struct {
	App    *app.App
	All    bool
	Format printers.Format
	ShowID bool
	Out    io.Writer
}

func (n *List) Do(_ context.Context) error {
	if n.App == nil {
		return errNoApp
	}
	list := n.App.Todos().Active()
	if n.All {
		list = n.App.Todos().All()
	}
	if n.Format != printers.FormatText {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		return printers.Structured(out, n.Format, list)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount("Todos", len(list), "todo")
	pp.Todos(list...)
	return nil
}

func show(a *app.App, showID bool, out io.Writer) error {
	l := List{App: a, ShowID: showID, Out: out}
	return l.Do(context.Background())
}

func find(list []todo.Todo, id string) (todo.Todo, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return todo.Todo{}, false
}
