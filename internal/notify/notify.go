// Package notify shows short success and error messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes notifications as single lines. Success lines go to out and
// are dropped when quiet; error lines always go to errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
	ok     *color.Color
	fail   *color.Color
}

// NewConsole creates a console notifier.
func NewConsole(out, errOut io.Writer, quiet, noColor bool) *Console {
	c := &Console{
		out:    out,
		errOut: errOut,
		quiet:  quiet,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
	}
	if noColor {
		c.ok.DisableColor()
		c.fail.DisableColor()
	}
	return c
}

// Success implements Notifier.
func (c *Console) Success(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, c.ok.Sprint("✓ ")+msg)
}

// Error implements Notifier.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.errOut, c.fail.Sprint("✗ ")+msg)
}

// Kind tells success and error notifications apart.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Entry is one recorded notification.
type Entry struct {
	Kind Kind
	Msg  string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Success implements Notifier.
func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

// Error implements Notifier.
func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: k, Msg: msg})
}

// Entries returns the notifications received so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Errors returns the messages of error notifications.
func (r *Recorder) Errors() []string { return r.messages(KindError) }

// Successes returns the messages of success notifications.
func (r *Recorder) Successes() []string { return r.messages(KindSuccess) }

func (r *Recorder) messages(k Kind) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Kind == k {
			out = append(out, e.Msg)
		}
	}
	return out
}
