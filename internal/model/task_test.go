package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", Pending.String())
	assert.Equal(t, "In Progress", InProgress.String())
	assert.Equal(t, "Finished", Finished.String())
	assert.Equal(t, "Unknown", Status(7).String())
	assert.False(t, Status(-1).Valid())
	assert.True(t, Finished.Valid())
}

func TestTask_JSONKeepsNullFinishedAt(t *testing.T) {
	b, err := json.Marshal(Task{ID: 5, Title: "x", Status: Finished, CreatedAt: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"title":"x","description":"","status":2,"createdAt":"2024-01-01T00:00:00Z","finishedAt":null}`, string(b))
}

func TestTask_HasFinishedAt(t *testing.T) {
	assert.False(t, Task{}.HasFinishedAt())
	assert.False(t, Task{FinishedAt: StringPtr("")}.HasFinishedAt())
	assert.True(t, Task{FinishedAt: StringPtr("2024-01-01T10:00")}.HasFinishedAt())
}

func TestTask_DraftAndDescription(t *testing.T) {
	task := Task{ID: 3, Title: "Buy milk", Status: InProgress, CreatedAt: "c"}
	assert.Equal(t, Draft{Title: "Buy milk", Status: InProgress}, task.Draft())
	assert.Equal(t, "No description", task.DisplayDescription())
	task.Description = "two litres"
	assert.Equal(t, "two litres", task.DisplayDescription())
	assert.False(t, task.IsNew())
	assert.True(t, Task{}.IsNew())
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 7, 31, 250_000_000, time.UTC)

	assert.Equal(t, "2024-03-09T14:07:31.250Z", ISOTimestamp(ts))
	assert.Equal(t, ts.Local().Format("2006-01-02T15:04"), LocalMinuteTimestamp(ts))

	for _, in := range []string{
		"2024-03-09T14:07:31Z",
		"2024-03-09T14:07:31.250Z",
		"2024-03-09T14:07:31.1234567",
		"2024-03-09T14:07",
	} {
		_, err := ParseTimestamp(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
	assert.Equal(t, "yesterday", DisplayTimestamp("yesterday"))
	assert.Equal(t, "09/03/2024 14:07", DisplayTimestamp("2024-03-09T14:07"))
}
