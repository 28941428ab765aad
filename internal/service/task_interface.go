package service

import (
	"context"

	"taskSearch/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	// List с limit <= 0 возвращает все задачи
	List(ctx context.Context, page, limit int) ([]*task.Task, error)
}
