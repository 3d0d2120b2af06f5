package panicerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	got, err := Call(func() int { return 3 })
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestCall_Panic(t *testing.T) {
	got, err := Call(func() int { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Zero(t, got)
}
