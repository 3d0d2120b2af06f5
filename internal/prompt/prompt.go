// Package prompt asks the user for confirmations and missing values on the
// terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input")

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(title, question string) (bool, error)
}

// Answer is a Confirmer that always gives the same answer.
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(title, question string) (bool, error) {
	return bool(a), nil
}

// Terminal reads answers line by line from an input stream.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer

	// fd is the input's file descriptor when it is an interactive terminal,
	// otherwise -1.
	fd           int
	readPassword func(fd int) ([]byte, error)
}

// NewTerminal creates a prompt reading from in and writing questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           -1,
		readPassword: term.ReadPassword,
	}
	if f, ok := in.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	return t
}

// Confirm implements Confirmer. Only "y" or "yes" count as consent; an empty
// answer declines.
func (t *Terminal) Confirm(title, question string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s\n%s [y/N]: ", title, question)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Line asks for a single value and returns it trimmed.
func (t *Terminal) Line(label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s: ", label)
	return t.readLine()
}

// Password asks for a secret. On an interactive terminal the typed
// characters are not echoed; other inputs are read like Line.
func (t *Terminal) Password(label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s: ", label)
	if t.fd < 0 {
		return t.readLine()
	}
	secret, err := t.readPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if len(secret) == 0 {
		return "", ErrNoInput
	}
	return strings.TrimSpace(string(secret)), nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
