// Package consoleout writes user-facing status lines.
package consoleout

import (
	"fmt"
	"io"
	"sync"
)

const (
	styleReset   = "\033[0m"
	styleBold    = "\033[1m"
	styleRed     = "\033[31m"
	styleMagenta = "\033[35m"
	styleCyan    = "\033[36m"
)

// Adapter implements ports.ConsolePort on top of a writer.
type Adapter struct {
	mu       sync.Mutex
	w        io.Writer
	useColor bool
}

// New creates a console writing to w. Pass useColor=false to emit plain
// text.
func New(w io.Writer, useColor bool) *Adapter {
	return &Adapter{w: w, useColor: useColor}
}

// Info prints msg in bold.
func (a *Adapter) Info(msg string) { a.echo(styleBold, msg) }

// Waiting prints msg in bold magenta.
func (a *Adapter) Waiting(msg string) { a.echo(styleBold+styleMagenta, msg) }

// Success prints msg in bold cyan.
func (a *Adapter) Success(msg string) { a.echo(styleBold+styleCyan, msg) }

// Failure prints msg in bold red.
func (a *Adapter) Failure(msg string) { a.echo(styleBold+styleRed, msg) }

func (a *Adapter) echo(style, msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.useColor {
		fmt.Fprintf(a.w, "%s%s%s\n", style, msg, styleReset)
		return
	}
	fmt.Fprintln(a.w, msg)
}
