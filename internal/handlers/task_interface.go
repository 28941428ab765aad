package handlers

import (
	"context"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/models/task"
	"taskSearch/internal/search"
	"taskSearch/internal/service"
	"taskSearch/internal/stats"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	Now() time.Time

	CreateTask(ctx context.Context, title string, options ...task.TaskOption) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, spec filter.Spec, record bool) (*service.SearchResult, error)
	OverdueTasks(ctx context.Context) ([]*task.Task, error)
	Stats(ctx context.Context, spec filter.Spec) (stats.Summary, error)

	SavePreset(name string, spec filter.Spec, isDefault bool) (search.Preset, error)
	ListPresets() []search.Preset
	GetPreset(id uuid.UUID) (search.Preset, error)
	DeletePreset(id uuid.UUID) error
	ApplyPreset(ctx context.Context, id uuid.UUID) (*service.SearchResult, error)

	SearchHistory(limit int) []search.HistoryItem
	ClearHistory()
}
