package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/handiism/albumart/internal/batch"
)

// printer turns progress events into output lines. Successes and info go to
// stdout, warnings and errors to stderr.
type printer struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	emoji   bool
}

func newPrinter(stdout, stderr io.Writer, verbose, plain bool) *printer {
	return &printer{
		stdout:  stdout,
		stderr:  stderr,
		verbose: verbose,
		emoji:   !plain && isTerminal(stdout),
	}
}

func (p *printer) print(event batch.ProgressEvent) {
	if event.Level == batch.LevelVerbose && !p.verbose {
		return
	}

	w := p.stdout
	if event.Level == batch.LevelError || event.Level == batch.LevelWarning {
		w = p.stderr
	}

	fmt.Fprintln(w, p.prefix(event.Level)+event.Message)
}

func (p *printer) prefix(level batch.ProgressLevel) string {
	if !p.emoji {
		return ""
	}
	switch level {
	case batch.LevelError:
		return "❌ "
	case batch.LevelWarning:
		return "⚠️  "
	case batch.LevelSuccess:
		return "✅ "
	case batch.LevelInfo:
		return "ℹ️  "
	default:
		return "   "
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
