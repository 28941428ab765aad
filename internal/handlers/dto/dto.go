package dto

import (
	"fmt"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/models/task"
	"taskSearch/internal/search"
	"taskSearch/internal/stats"
	"taskSearch/internal/textmatch"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest - nil поля не меняются, пустая строка в due_date снимает дедлайн
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// PresetRequest - фильтр задаётся либо объектом filters, либо строкой
// query в формате параметров URL
type PresetRequest struct {
	Name      string       `json:"name"`
	Filters   *filter.Spec `json:"filters,omitempty"`
	Query     string       `json:"query,omitempty"`
	IsDefault bool         `json:"is_default"`
}

type TaskResponse struct {
	ID          uuid.UUID                      `json:"id"`
	Title       string                         `json:"title"`
	Description string                         `json:"description,omitempty"`
	Status      task.Status                    `json:"status"`
	Priority    task.Priority                  `json:"priority"`
	DueDate     *time.Time                     `json:"due_date,omitempty"`
	Tags        []string                       `json:"tags"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
	Version     int                            `json:"version"`
	IsOverdue   bool                           `json:"is_overdue"`
	Highlights  map[string][]textmatch.Segment `json:"highlights,omitempty"`
}

type SearchResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	Total       int            `json:"total"`
	Matched     int            `json:"matched"`
	Page        int            `json:"page,omitempty"`
	Limit       int            `json:"limit,omitempty"`
	Description string         `json:"description"`
	Query       string         `json:"query"`
	ElapsedMS   float64        `json:"elapsed_ms"`
}

type PresetResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Filters     filter.Spec `json:"filters"`
	Query       string      `json:"query"`
	Description string      `json:"description"`
	IsDefault   bool        `json:"is_default"`
}

type HistoryResponse struct {
	ID          uuid.UUID   `json:"id"`
	Query       string      `json:"query"`
	Filters     filter.Spec `json:"filters"`
	Params      string      `json:"params"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
}

type StatsResponse struct {
	stats.Summary
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ParseDueDate принимает RFC 3339 или календарную дату
func ParseDueDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(filter.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается дата ISO 8601: %q", raw)
	}
	return t, nil
}

func FromTask(t *task.Task, now time.Time) TaskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
		IsOverdue:   t.IsOverdue(now),
	}
}

// FromTaskList при непустом тексте добавляет подсветку совпадений
func FromTaskList(tasks []*task.Task, now time.Time, text string) []TaskResponse {
	matcher := textmatch.Compile(text, false)
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now)
		if !matcher.Empty() {
			result[i].Highlights = highlights(matcher, t)
		}
	}
	return result
}

func highlights(m *textmatch.Matcher, t *task.Task) map[string][]textmatch.Segment {
	res := map[string][]textmatch.Segment{}
	if m.Match(t.Title) {
		res["title"] = m.Decompose(t.Title)
	}
	if m.Match(t.Description) {
		res["description"] = m.Decompose(t.Description)
	}
	for _, tag := range t.Tags {
		if m.Match(tag) {
			res["tag:"+tag] = m.Decompose(tag)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

func FromPreset(p search.Preset) PresetResponse {
	return PresetResponse{
		ID:          p.ID,
		Name:        p.Name,
		Filters:     p.Filters,
		Query:       filter.Encode(p.Filters).Encode(),
		Description: filter.Describe(p.Filters),
		IsDefault:   p.IsDefault,
	}
}

func FromPresetList(presets []search.Preset) []PresetResponse {
	result := make([]PresetResponse, len(presets))
	for i, p := range presets {
		result[i] = FromPreset(p)
	}
	return result
}

func FromHistory(items []search.HistoryItem) []HistoryResponse {
	result := make([]HistoryResponse, len(items))
	for i, item := range items {
		result[i] = HistoryResponse{
			ID:          item.ID,
			Query:       item.Query,
			Filters:     item.Filters,
			Params:      filter.Encode(item.Filters).Encode(),
			Description: filter.Describe(item.Filters),
			Timestamp:   item.Timestamp,
		}
	}
	return result
}
