package store

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/Joseda-hg/lazyboard/internal/model"
)

func encodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return sonic.ConfigStd.MarshalToString(tasks)
}

// decodeTasks parses the persisted array and checks every record against the
// task schema. Any failure rejects the whole payload.
func decodeTasks(raw string) ([]model.Task, error) {
	var tasks []model.Task
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		return nil, errors.New("decode tasks: payload is not an array")
	}

	seen := make(map[string]struct{}, len(tasks))
	for i, task := range tasks {
		if err := model.ValidateRecord(task); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if _, ok := seen[task.ID]; ok {
			return nil, fmt.Errorf("task %d: duplicate id %q", i, task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	return tasks, nil
}
