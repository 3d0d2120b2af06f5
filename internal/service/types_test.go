package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskID_DecodesNumbersAndStrings(t *testing.T) {
	var tasks []Task
	err := json.Unmarshal([]byte(`[{"id":12,"title":"a"},{"id":"x-9","title":"b"},{"title":"c"}]`), &tasks)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, TaskID("12"), tasks[0].ID)
	assert.Equal(t, TaskID("x-9"), tasks[1].ID)
	assert.Equal(t, TaskID(""), tasks[2].ID)
}

func TestTaskID_EncodesDigitsAsNumber(t *testing.T) {
	data, err := json.Marshal(Task{ID: "42", Title: "t", Description: "d", Status: StatusDone})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"title":"t","description":"d","status":"Done"}`, string(data))

	data, err = json.Marshal(Task{ID: "abc-1", Title: "t", Description: "d", Status: StatusDone})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc-1","title":"t","description":"d","status":"Done"}`, string(data))
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"To Do":       StatusToDo,
		"todo":        StatusToDo,
		" to-do ":     StatusToDo,
		"In Progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"INPROGRESS":  StatusInProgress,
		"done":        StatusDone,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("blocked")
	assert.EqualError(t, err, "invalid status: blocked")
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("list: %w", NewError(KindUnauthorized, "token rejected", errors.New("401")))
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Equal(t, "token rejected", Message(err))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindUnknown))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
