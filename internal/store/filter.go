package store

import (
	"strings"
	"time"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

// ApplyFilter returns the tasks matching every active clause of filter, in
// their input order. It does no I/O and never modifies tasks.
//
// Done tasks are dropped unless IncludeDone is set. Status and Priority are
// ignored when empty or "all". With DueBefore, tasks without a due date and
// tasks due after the bound are dropped; a bound that does not parse is
// ignored.
func ApplyFilter(tasks []model.Task, filter model.Filter) []model.Task {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == model.FilterAll {
		status = ""
	}
	priority := strings.ToLower(strings.TrimSpace(filter.Priority))
	if priority == model.FilterAll {
		priority = ""
	}

	var bound time.Time
	hasBound := false
	if filter.DueBefore != nil {
		if parsed, err := model.ParseDate(*filter.DueBefore); err == nil {
			bound, hasBound = parsed, true
		}
	}

	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !filter.IncludeDone && task.Status == model.StatusDone {
			continue
		}
		if status != "" && string(task.Status) != status {
			continue
		}
		if priority != "" && string(task.Priority) != priority {
			continue
		}
		if hasBound {
			due, ok := task.Due()
			if !ok || due.After(bound) {
				continue
			}
		}
		result = append(result, cloneTask(task))
	}
	return result
}
