package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

func TestWriteListsTasks(t *testing.T) {
	due := "2026-11-02"
	tasks := []model.Task{
		{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Title: "Write docs", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: &due},
		{ID: "short", Title: "Ship", Status: model.StatusInProgress, Priority: model.PriorityLow, Order: 0},
	}

	var out bytes.Buffer
	require.NoError(t, Write(&out, tasks, Options{}))

	rendered := out.String()
	require.Contains(t, rendered, "Write docs")
	require.Contains(t, rendered, "In progress")
	require.Contains(t, rendered, "2026-11-02")
	require.Contains(t, rendered, "0f8fad5b")
	require.NotContains(t, rendered, "0f8fad5b-d9cb")
	require.Contains(t, strings.ToLower(rendered), "2 tasks")
	require.False(t, strings.Contains(rendered, "\x1b["), "expected no color codes")
}

func TestWriteEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Write(&out, nil, Options{Color: true}))
	require.Contains(t, strings.ToLower(out.String()), "0 tasks")
}
