package ui

import (
	"io"

	"github.com/fatih/color"
)

// Status output for the non-interactive commands.
var (
	Stdout io.Writer = color.Output
	Stderr io.Writer = color.Error
)

func OK(msg string) {
	color.New(color.FgGreen).Fprintln(Stdout, current.SymOK+" "+msg)
}

func Fail(msg string) {
	color.New(color.FgRed, color.Bold).Fprintln(Stderr, current.SymFail+" "+msg)
}

// Hint is a dim follow-up line under a failure.
func Hint(msg string) {
	color.New(color.Faint).Fprintln(Stderr, msg)
}
