package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskSearch/internal/filter"
	"taskSearch/internal/logger"
	"taskSearch/internal/metrics"
	"taskSearch/internal/models/task"
	rep "taskSearch/internal/repository"
	"taskSearch/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ограничения полей задачи
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxTags              = 10
	MaxTagLength         = 50
	MaxPresetNameLength  = 100
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo    TaskRepository
	engine  *filter.Engine
	presets *search.Presets
	history *search.History
	metrics *metrics.Metrics
	now     func() time.Time
}

type ServiceOption func(*TaskService)

func WithPresets(presets *search.Presets) ServiceOption {
	return func(s *TaskService) {
		s.presets = presets
	}
}

func WithHistory(history *search.History) ServiceOption {
	return func(s *TaskService) {
		s.history = history
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *TaskService) {
		s.metrics = m
	}
}

// WithClock задаёт источник времени и для сервиса, и для движка фильтрации
func WithClock(now func() time.Time) ServiceOption {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(repo TaskRepository, options ...ServiceOption) *TaskService {
	s := &TaskService{
		repo:    repo,
		presets: search.NewPresets(),
		history: search.NewHistory(0),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.engine = filter.NewEngine(filter.WithClock(s.now))
	return s
}

func (s *TaskService) Now() time.Time {
	return s.now()
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string, options ...task.TaskOption) (*task.Task, error) {
	now := s.now()
	newTask := &task.Task{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Status:    task.StatusTodo,
		Priority:  task.PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	task.Apply(newTask, options...)
	newTask.Title = strings.TrimSpace(newTask.Title)

	if err := validateTask(newTask); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			return nil, NewBusinessError(CodeAlreadyExists, "Задача с таким id уже существует",
				ToDetail("id", newTask.ID.String()))
		}
		logger.Error("Service: Ошибка создания задачи", err)
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID.String()))
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(ResourceTask, id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTask применяет опции к текущей версии задачи.
// updated_at строго растёт даже при отстающих часах.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Apply(t, options...)
	t.Title = strings.TrimSpace(t.Title)
	if err := validateTask(t); err != nil {
		return nil, err
	}

	now := s.now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = now

	expected := t.Version
	if err := s.repo.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, rep.ErrNotFound):
			return nil, NewNotFound(ResourceTask, id.String())
		case errors.Is(err, rep.ErrVersionConflict):
			logger.Warn("Service: Конфликт версий", zap.String("task_id", id.String()), zap.Int("version", expected))
			return nil, NewVersionConflict(id.String(), expected, err)
		default:
			logger.Error("Service: Ошибка обновления задачи", err)
			return nil, fmt.Errorf("обновление задачи: %w", err)
		}
	}

	logger.Info("Service: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Int("version", t.Version))
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceTask, id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

func validateTask(t *task.Task) error {
	titleLen := utf8.RuneCountInString(t.Title)
	if titleLen == 0 {
		return NewValidationError("title", "название не может быть пустым")
	}
	if titleLen > MaxTitleLength {
		return NewValidationError("title", fmt.Sprintf("не длиннее %d символов", MaxTitleLength))
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("не длиннее %d символов", MaxDescriptionLength))
	}
	if !t.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("неизвестный статус %q", t.Status))
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("неизвестный приоритет %q", t.Priority))
	}
	if len(t.Tags) > MaxTags {
		return NewValidationError("tags", fmt.Sprintf("не больше %d меток", MaxTags))
	}
	for _, tag := range t.Tags {
		if strings.TrimSpace(tag) == "" {
			return NewValidationError("tags", "метка не может быть пустой")
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return NewValidationError("tags", fmt.Sprintf("метка не длиннее %d символов", MaxTagLength))
		}
	}
	return nil
}
