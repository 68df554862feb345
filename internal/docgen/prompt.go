package docgen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// TerminalPrompter reads the answer from a terminal. When the input is not a terminal it
// answers no without asking.
type TerminalPrompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewTerminalPrompter prompts on stderr and reads stdin.
func NewTerminalPrompter() *TerminalPrompter {
	fd := os.Stdin.Fd()
	return &TerminalPrompter{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// NewPrompter builds a prompter over arbitrary streams.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, interactive: interactive}
}

// Confirm prints question followed by " [y/N] " and accepts y or yes, case-insensitively.
// Cancelling ctx abandons the read and returns a runtime error.
func (p *TerminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if !p.interactive {
		return false, nil
	}
	if _, err := fmt.Fprintf(p.out, "%s [y/N] ", question); err != nil {
		return false, err
	}

	type answer struct {
		line string
		err  error
	}
	// The reader goroutine stays blocked on the terminal after a cancel; the process exits soon after.
	answers := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		answers <- answer{line, err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(p.out)
		return false, foundationerrors.WrapError(ctx.Err(), foundationerrors.CategoryRuntime, "interrupted at prompt").
			Fatal().
			Build()
	case a = <-answers:
	}
	if a.err != nil && a.err != io.EOF {
		return false, a.err
	}
	switch strings.ToLower(strings.TrimSpace(a.line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
