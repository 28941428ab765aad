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
	"taskSearch/internal/models/task"
	"taskSearch/internal/search"
	"taskSearch/internal/stats"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SearchResult struct {
	Tasks       []*task.Task
	Filters     filter.Spec
	Total       int
	Description string
	Elapsed     time.Duration
	// Recorded - запись истории, если поиск был в неё добавлен
	Recorded *search.HistoryItem
}

// Search прогоняет движок по всем задачам. При record=true непустой поиск
// попадает в историю.
func (s *TaskService) Search(ctx context.Context, spec filter.Spec, record bool) (*SearchResult, error) {
	tasks, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("получение задач для поиска: %w", err)
	}

	spec = spec.Normalize()
	start := time.Now()
	matched, err := s.engine.Apply(tasks, spec)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("Service: Ошибка фильтрации", err)
		return nil, fmt.Errorf("фильтрация задач: %w", err)
	}

	clauses := spec.ActiveClauses()
	names := make([]string, 0, len(clauses))
	for _, c := range clauses {
		names = append(names, string(c))
	}
	s.metrics.ObserveFilter(names, elapsed, len(matched))

	res := &SearchResult{
		Tasks:       matched,
		Filters:     spec,
		Total:       len(tasks),
		Description: filter.Describe(spec),
		Elapsed:     elapsed,
	}

	if record {
		if item, ok := s.history.Record(spec.Text, spec, s.now()); ok {
			res.Recorded = &item
		}
	}

	logger.Debug("Service: Поиск выполнен",
		zap.Strings("clauses", names),
		zap.Int("total", len(tasks)),
		zap.Int("matched", len(matched)),
		zap.Duration("ms", elapsed))
	return res, nil
}

func (s *TaskService) OverdueTasks(ctx context.Context) ([]*task.Task, error) {
	res, err := s.Search(ctx, filter.Spec{IsOverdue: true}, false)
	if err != nil {
		return nil, err
	}
	return res.Tasks, nil
}

// Stats считает сводку по задачам, попавшим под фильтр. Пустой фильтр
// означает все задачи, и только такая сводка попадает в метрики.
func (s *TaskService) Stats(ctx context.Context, spec filter.Spec) (stats.Summary, error) {
	tasks, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("получение задач для статистики: %w", err)
	}

	if spec.IsEmpty() {
		summary := stats.Summarize(tasks, s.now())
		s.metrics.SetSummary(summary)
		return summary, nil
	}

	matched, err := s.engine.Apply(tasks, spec)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("фильтрация задач для статистики: %w", err)
	}
	return stats.Summarize(matched, s.now()), nil
}

// RefreshMetrics обновляет метрики-снимки: статистику задач и размеры хранилищ поиска
func (s *TaskService) RefreshMetrics(ctx context.Context) (stats.Summary, error) {
	summary, err := s.Stats(ctx, filter.Spec{})
	if err != nil {
		return stats.Summary{}, err
	}
	s.metrics.SetSearchState(len(s.presets.List()), s.history.Len())
	return summary, nil
}

func (s *TaskService) SavePreset(name string, spec filter.Spec, isDefault bool) (search.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return search.Preset{}, NewValidationError("name", "имя пресета не может быть пустым")
	}
	if utf8.RuneCountInString(name) > MaxPresetNameLength {
		return search.Preset{}, NewValidationError("name", fmt.Sprintf("не длиннее %d символов", MaxPresetNameLength))
	}

	preset := s.presets.Add(name, spec, isDefault)
	logger.Info("Service: Пресет сохранён",
		zap.String("preset_id", preset.ID.String()),
		zap.String("name", preset.Name))
	return preset, nil
}

func (s *TaskService) ListPresets() []search.Preset {
	return s.presets.List()
}

func (s *TaskService) GetPreset(id uuid.UUID) (search.Preset, error) {
	preset, err := s.presets.Get(id)
	if err != nil {
		if errors.Is(err, search.ErrPresetNotFound) {
			return search.Preset{}, NewNotFound(ResourcePreset, id.String())
		}
		return search.Preset{}, err
	}
	return preset, nil
}

func (s *TaskService) DeletePreset(id uuid.UUID) error {
	if err := s.presets.Remove(id); err != nil {
		if errors.Is(err, search.ErrPresetNotFound) {
			return NewNotFound(ResourcePreset, id.String())
		}
		return err
	}
	logger.Info("Service: Пресет удалён", zap.String("preset_id", id.String()))
	return nil
}

// ApplyPreset выполняет поиск по фильтру пресета и записывает его в историю
func (s *TaskService) ApplyPreset(ctx context.Context, id uuid.UUID) (*SearchResult, error) {
	preset, err := s.GetPreset(id)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, preset.Filters, true)
}

func (s *TaskService) SearchHistory(limit int) []search.HistoryItem {
	return s.history.Recent(limit)
}

func (s *TaskService) ClearHistory() {
	s.history.Clear()
	logger.Info("Service: История поиска очищена")
}
