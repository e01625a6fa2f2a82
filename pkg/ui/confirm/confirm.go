// Package confirm asks the user yes/no questions.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/pterm/pterm"
)

// Confirmer answers a yes/no question. defaultValue is the answer when the
// user just presses enter, or when nobody is asked at all.
type Confirmer interface {
	Confirm(message string, defaultValue bool) bool
}

// Auto answers every question with its default without asking.
type Auto struct{}

func (Auto) Confirm(_ string, defaultValue bool) bool { return defaultValue }

// Console reads answers line by line from In and writes prompts to Out.
type Console struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// NewConsole returns a Console on the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

// Confirm prints the question with a [Y/n] or [y/N] marker. An empty or
// unreadable answer yields the default; anything that is not a yes or no is
// read as the opposite of the default.
func (c *Console) Confirm(message string, defaultValue bool) bool {
	marker := "[y/N]"
	if defaultValue {
		marker = "[Y/n]"
	}
	_, _ = fmt.Fprintf(c.Out, "%s %s: ", message, marker)

	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.In)
	}
	if !c.scanner.Scan() {
		return defaultValue
	}

	switch strings.ToLower(strings.TrimSpace(c.scanner.Text())) {
	case "":
		return defaultValue
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return !defaultValue
	}
}

// Interactive uses pterm's interactive confirm prompt.
type Interactive struct{}

func (Interactive) Confirm(message string, defaultValue bool) bool {
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(defaultValue).
		Show(message)
	if err != nil {
		logger := logging.GetLogger("confirm")
		logger.Debug().Err(err).Msg("Prompt failed, using default")
		return defaultValue
	}
	return result
}

// New picks a Confirmer for a run. Without confirmation, or when quiet, the
// defaults are used. A terminal gets the interactive prompt; any other stdin
// is read line by line.
func New(enabled, quiet bool) Confirmer {
	if !enabled || quiet {
		return Auto{}
	}
	if logging.IsTerminal(os.Stdin) {
		return Interactive{}
	}
	return NewConsole(os.Stdin, os.Stderr)
}
