package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled reports whether output to f should be colored: f is a
// terminal and neither NO_COLOR nor CLICOLOR=0 is set.
func ColorEnabled(f *os.File) bool {
	return IsTerminal(f) && !termenv.EnvNoColor()
}
