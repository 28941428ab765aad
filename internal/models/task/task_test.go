package task_test

import (
	"testing"
	"time"

	"taskSearch/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseStatusAndPriority тестирует разбор перечислений
func TestParseStatusAndPriority(t *testing.T) {
	for _, s := range task.Statuses() {
		parsed, err := task.ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	for _, p := range task.Priorities() {
		parsed, err := task.ParsePriority(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := task.ParseStatus("in_progress")
	assert.Error(t, err)
	_, err = task.ParsePriority("")
	assert.Error(t, err)
}

// TestTask_IsOverdue тестирует определение просрочки
func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name     string
		due      *time.Time
		status   task.Status
		expected bool
	}{
		{"no due date", nil, task.StatusTodo, false},
		{"due in past", &past, task.StatusTodo, true},
		{"due in past, in progress", &past, task.StatusInProgress, true},
		{"due in past, completed", &past, task.StatusCompleted, false},
		{"due in future", &future, task.StatusTodo, false},
		{"due exactly now", &now, task.StatusTodo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &task.Task{DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.expected, tk.IsOverdue(now))
		})
	}
}

// TestTask_Clone тестирует независимость копии
func TestTask_Clone(t *testing.T) {
	due := time.Now()
	original := &task.Task{Title: "a", DueDate: &due, Tags: []string{"x"}}

	clone := original.Clone()
	clone.Tags[0] = "y"
	*clone.DueDate = due.Add(time.Hour)

	assert.Equal(t, "x", original.Tags[0])
	assert.True(t, original.DueDate.Equal(due))
}

// TestApply тестирует опции изменения задачи
func TestApply(t *testing.T) {
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := &task.Task{Title: "old", Status: task.StatusTodo, Priority: task.PriorityLow}

	task.Apply(tk,
		task.WithTitle(""),
		task.WithStatus(""),
		task.WithPriority(task.PriorityHigh),
		task.WithDueDate(due),
		task.WithTags([]string{"a", "b", "a"}),
		nil,
	)

	assert.Equal(t, "old", tk.Title)
	assert.Equal(t, task.StatusTodo, tk.Status)
	assert.Equal(t, task.PriorityHigh, tk.Priority)
	require.NotNil(t, tk.DueDate)
	assert.True(t, due.Equal(*tk.DueDate))
	assert.Equal(t, []string{"a", "b"}, tk.Tags)

	task.Apply(tk, task.WithoutDueDate(), task.WithDescription("desc"), task.WithTags(nil))
	assert.Nil(t, tk.DueDate)
	assert.Equal(t, "desc", tk.Description)
	assert.Empty(t, tk.Tags)
	assert.NotNil(t, tk.Tags)
}
