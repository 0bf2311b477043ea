package store

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

func formatCreatedDetails(task model.Task) string {
	return fmt.Sprintf("created: title='%s' status=%s priority=%s order=%d due=%s", task.Title, task.Status, task.Priority, task.Order, formatDue(task.DueDate))
}

func formatDeletedDetails(task model.Task) string {
	return fmt.Sprintf("deleted: title='%s' status=%s priority=%s order=%d due=%s", task.Title, task.Status, task.Priority, task.Order, formatDue(task.DueDate))
}

func formatTaskDiff(before, after model.Task) string {
	changes := []string{}
	if before.Title != after.Title {
		changes = append(changes, formatChange("title", before.Title, after.Title))
	}
	if before.Description != after.Description {
		changes = append(changes, formatChange("description", before.Description, after.Description))
	}
	if before.Status != after.Status {
		changes = append(changes, formatChange("status", string(before.Status), string(after.Status)))
	}
	if before.Priority != after.Priority {
		changes = append(changes, formatChange("priority", string(before.Priority), string(after.Priority)))
	}
	if before.Order != after.Order {
		changes = append(changes, formatChange("order", fmt.Sprintf("%d", before.Order), fmt.Sprintf("%d", after.Order)))
	}
	if formatDue(before.DueDate) != formatDue(after.DueDate) {
		changes = append(changes, formatChange("due", formatDue(before.DueDate), formatDue(after.DueDate)))
	}

	if len(changes) == 0 {
		return "updated: no changes"
	}

	return "updated: " + strings.Join(changes, "; ")
}

func formatChange(field, before, after string) string {
	return fmt.Sprintf("%s: '%s' -> '%s'", field, valueOrNone(before), valueOrNone(after))
}

func valueOrNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "none"
	}
	return trimmed
}

func formatDue(value *string) string {
	if value == nil {
		return "none"
	}
	return *value
}
