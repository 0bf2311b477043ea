package store

import (
	"sort"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

// normalizeLane rewrites the order of every task in status to its position
// in the lane, 0..n-1. Equal orders go to the most recently updated task.
func normalizeLane(tasks []model.Task, status model.Status) {
	lane := make([]int, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Status == status {
			lane = append(lane, i)
		}
	}
	sort.SliceStable(lane, func(a, b int) bool {
		return laneLess(tasks[lane[a]], tasks[lane[b]])
	})
	for position, i := range lane {
		tasks[i].Order = position
	}
}

// Normalize returns a copy of tasks with every lane normalized and the result
// sorted for display.
func Normalize(tasks []model.Task) []model.Task {
	result := cloneTasks(tasks)
	for _, status := range model.Statuses {
		normalizeLane(result, status)
	}
	SortTasks(result)
	return result
}

// SortTasks orders tasks by lane rank, then lane position.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := tasks[i].Status.Rank(), tasks[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return laneLess(tasks[i], tasks[j])
	})
}

func laneLess(a, b model.Task) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}

func nextOrder(tasks []model.Task, status model.Status) int {
	highest := -1
	for _, task := range tasks {
		if task.Status == status && task.Order > highest {
			highest = task.Order
		}
	}
	return highest + 1
}
