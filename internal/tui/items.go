package tui

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazyboard/internal/board"
	"github.com/Joseda-hg/lazyboard/internal/model"
	"github.com/jesseduffield/gocui"
)

// groupLanes splits an already sorted task list per lane, keeping its order.
func groupLanes(tasks []model.Task) board.Lanes {
	lanes := make(board.Lanes, len(model.Statuses))
	for _, status := range model.Statuses {
		lanes[status] = []model.Task{}
	}
	for _, task := range tasks {
		if _, ok := lanes[task.Status]; ok {
			lanes[task.Status] = append(lanes[task.Status], task)
		}
	}
	return lanes
}

func formatDue(task model.Task) string {
	if task.DueDate == nil {
		return "n/a"
	}
	return *task.DueDate
}

func formatTaskSummary(task model.Task) string {
	parts := []string{task.Title, priorityMarker(task.Priority)}
	if task.DueDate != nil {
		parts = append(parts, "due "+*task.DueDate)
	}
	return strings.Join(parts, " | ")
}

func priorityMarker(priority model.Priority) string {
	switch priority {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	default:
		return "!"
	}
}

func laneTitle(status model.Status, count int, hidden bool) string {
	title := fmt.Sprintf("%d %s (%d)", status.Rank()+1, status.Label(), count)
	if hidden {
		title += " hidden, x to show"
	}
	return title
}

func laneColor(status model.Status) gocui.Attribute {
	switch status {
	case model.StatusInProgress:
		return gocui.ColorYellow
	case model.StatusDone:
		return gocui.ColorGreen
	default:
		return gocui.ColorRed
	}
}
