package inmemory

import (
	"context"
	"sync"

	"taskSearch/internal/logger"
	"taskSearch/internal/models/task"
	repo "taskSearch/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage отдаёт наружу только копии задач, чтобы движок фильтрации
// и обработчики не могли изменить хранимые значения.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}
	if taskToCreate.Version == 0 {
		taskToCreate.Version = 1
	}

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

// Update сохраняет задачу, если её версия совпадает с хранимой, и увеличивает версию
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if existed.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	taskToUpdate.Version++
	taskToUpdate.CreatedAt = existed.CreatedAt
	s.storage[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// List возвращает задачи в порядке создания. limit <= 0 - все задачи.
func (s *TaskStorage) List(ctx context.Context, page, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if limit <= 0 {
		res := make([]*task.Task, 0, len(s.ids))
		for _, id := range s.ids {
			res = append(res, s.storage[id].Clone())
		}
		return res, nil
	}

	if page < 1 {
		page = 1
	}
	res := []*task.Task{}
	offset := (page - 1) * limit

	for i := offset; i < len(s.ids); i++ {
		if len(res) >= limit {
			break
		}
		res = append(res, s.storage[s.ids[i]].Clone())
	}

	return res, nil
}

