// Package report prints the board as a plain table for non-interactive use.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

type Options struct {
	Color bool
}

// Write renders tasks in the order given, one row per task.
func Write(w io.Writer, tasks []model.Task, opts Options) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{"Lane", "#", "Title", "Priority", "Due", "ID"})
	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.Status.Label(),
			task.Order,
			task.Title,
			priorityCell(task.Priority, opts.Color),
			dueCell(task.DueDate),
			shortID(task.ID),
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tasks", len(tasks))})

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

func priorityCell(priority model.Priority, color bool) string {
	if !color {
		return string(priority)
	}
	switch priority {
	case model.PriorityHigh:
		return text.FgHiRed.Sprint(priority)
	case model.PriorityMedium:
		return text.FgHiYellow.Sprint(priority)
	default:
		return text.FgHiBlue.Sprint(priority)
	}
}

func dueCell(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
