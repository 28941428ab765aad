// Package stats считает сводные показатели по набору задач для дашбордов.
package stats

import (
	"math"
	"time"

	"taskSearch/internal/models/task"
)

type Summary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	Todo           int `json:"todo"`
	Overdue        int `json:"overdue"`
	HighPriority   int `json:"high_priority"`
	CompletionRate int `json:"completion_rate"`
}

// Summarize использует то же определение просрочки, что и фильтр isOverdue,
// поэтому числа на виджетах совпадают с отфильтрованным списком.
// nil-задачи пропускаются.
func Summarize(tasks []*task.Task, now time.Time) Summary {
	s := Summary{}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		s.Total++

		switch t.Status {
		case task.StatusCompleted:
			s.Completed++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusTodo:
			s.Todo++
		}

		if t.Priority == task.PriorityHigh {
			s.HighPriority++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(100 * float64(s.Completed) / float64(s.Total)))
	}
	return s
}
