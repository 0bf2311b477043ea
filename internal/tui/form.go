package tui

import (
	"strings"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldStatus
	fieldPriority
	fieldDue
)

func buildFormFields(task *model.Task, lane model.Status) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Status (space/←→)"},
		{Label: "Priority (space/←→)"},
		{Label: "Due (YYYY-MM-DD)"},
	}

	if task == nil {
		fields[fieldStatus].Value = string(lane)
		fields[fieldPriority].Value = string(model.PriorityMedium)
		return fields
	}

	fields[fieldTitle].Value = task.Title
	fields[fieldDescription].Value = task.Description
	fields[fieldStatus].Value = string(task.Status)
	fields[fieldPriority].Value = string(task.Priority)
	if task.DueDate != nil {
		fields[fieldDue].Value = *task.DueDate
	}

	return fields
}

// formInput leaves validation to the store so its errors reach the status line.
func formInput(fields []formField) model.TaskInput {
	input := model.TaskInput{
		Title:       strings.TrimSpace(fields[fieldTitle].Value),
		Description: strings.TrimSpace(fields[fieldDescription].Value),
		Status:      model.Status(strings.TrimSpace(fields[fieldStatus].Value)),
		Priority:    model.Priority(strings.TrimSpace(fields[fieldPriority].Value)),
	}
	if due := strings.TrimSpace(fields[fieldDue].Value); due != "" {
		input.DueDate = &due
	}
	return input
}

// formPatch overwrites every editable field; an empty due clears it.
func formPatch(fields []formField) model.TaskPatch {
	input := formInput(fields)
	patch := model.TaskPatch{
		Title:       &input.Title,
		Description: &input.Description,
		Status:      &input.Status,
		Priority:    &input.Priority,
	}
	if input.DueDate == nil {
		patch.ClearDueDate = true
	} else {
		patch.DueDate = input.DueDate
	}
	return patch
}

func isStatusField(label string) bool {
	return strings.HasPrefix(label, "Status")
}

func isPriorityField(label string) bool {
	return strings.HasPrefix(label, "Priority")
}

func nextStatus(current string) string {
	return cycleValue(statusNames(), current, 1)
}

func prevStatus(current string) string {
	return cycleValue(statusNames(), current, -1)
}

func nextPriority(current string) string {
	return cycleValue(priorityNames(), current, 1)
}

func prevPriority(current string) string {
	return cycleValue(priorityNames(), current, -1)
}

func cycleValue(order []string, current string, delta int) string {
	value := strings.TrimSpace(strings.ToLower(current))
	index := 0
	for i, candidate := range order {
		if candidate == value {
			index = i
			break
		}
	}
	index = (index + delta + len(order)) % len(order)
	return order[index]
}

func statusNames() []string {
	names := make([]string, 0, len(model.Statuses))
	for _, status := range model.Statuses {
		names = append(names, string(status))
	}
	return names
}

func priorityNames() []string {
	names := make([]string, 0, len(model.Priorities))
	for _, priority := range model.Priorities {
		names = append(names, string(priority))
	}
	return names
}
