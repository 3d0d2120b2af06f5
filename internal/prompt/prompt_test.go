package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader(tt.input), &out)

		got, err := term.Confirm("Confirm Delete", "Are you sure you want to delete this task?")
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Confirm Delete\nAre you sure you want to delete this task? [y/N]: ", out.String())
	}
}

func TestTerminal_ConfirmNoInput(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	_, err := term.Confirm("t", "q")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestTerminal_Line(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("jane@example.com\nsecret\n"), &out)

	email, err := term.Line("Email")
	require.NoError(t, err)
	password, err := term.Line("Password")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", email)
	assert.Equal(t, "secret", password)
	assert.Equal(t, "Email: Password: ", out.String())

	_, err = term.Line("More")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestAnswer(t *testing.T) {
	ok, err := Answer(true).Confirm("t", "q")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = Answer(false).Confirm("t", "q")
	assert.False(t, ok)
}

func TestTerminal_PasswordFromPipe(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("s3cret\n"), &out)

	got, err := term.Password("Password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "Password: ", out.String())

	_, err = term.Password("Password")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestTerminal_PasswordWithoutEcho(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("must not be read\n"), &out)
	term.fd = 7
	var gotFD int
	term.readPassword = func(fd int) ([]byte, error) {
		gotFD = fd
		return []byte("s3cret"), nil
	}

	got, err := term.Password("Password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, 7, gotFD)
	assert.Equal(t, "Password: \n", out.String(), "the secret is never written back")

	line, err := term.Line("Email")
	require.NoError(t, err)
	assert.Equal(t, "must not be read", line, "echoed input is left untouched")
}
