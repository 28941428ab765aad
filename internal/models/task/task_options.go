package task

import (
	"time"
)

// TaskOption применяет одно изменение к задаче.
// Конструкторы возвращают nil, если менять нечего; Apply такие опции пропускает.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDueDate(dueDate time.Time) TaskOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(task *Task) {
		due := dueDate
		task.DueDate = &due
	}
}

// WithoutDueDate снимает дедлайн
func WithoutDueDate() TaskOption {
	return func(task *Task) {
		task.DueDate = nil
	}
}

// WithTags заменяет набор меток, сохраняя порядок и убирая повторы
func WithTags(tags []string) TaskOption {
	return func(task *Task) {
		seen := make(map[string]struct{}, len(tags))
		res := make([]string, 0, len(tags))
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			res = append(res, tag)
		}
		task.Tags = res
	}
}

func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
