// Package filter содержит спецификацию расширенного поиска, движок предикатов
// над коллекцией задач и кодек состояния фильтра в параметры URL.
package filter

import (
	"strings"
	"time"

	"taskSearch/internal/models/task"
)

// Clause - имя отдельного условия фильтра. Порядок констант фиксирован
// и используется при выводе описания.
type Clause string

const (
	ClauseText        Clause = "text"
	ClauseStatus      Clause = "status"
	ClausePriority    Clause = "priority"
	ClauseTags        Clause = "tags"
	ClauseCreatedDate Clause = "created"
	ClauseDueDate     Clause = "due"
	ClauseOverdue     Clause = "overdue"
)

// DateRange - замкнутый интервал по дням, любая граница может отсутствовать
type DateRange struct {
	From *time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   *time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

func (r *DateRange) empty() bool {
	return r == nil || (r.From == nil && r.To == nil)
}

// Contains проверяет попадание t в [начало дня From, конец дня To]
func (r *DateRange) Contains(t time.Time) bool {
	if r.empty() {
		return true
	}
	if r.From != nil && t.Before(startOfDay(*r.From)) {
		return false
	}
	if r.To != nil && !t.Before(startOfDay(*r.To).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Spec - спецификация расширенного поиска.
// Отсутствующее поле означает "без ограничения по этому измерению".
type Spec struct {
	Text             string          `json:"text,omitempty" yaml:"text,omitempty"`
	Status           []task.Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Priority         []task.Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	Tags             []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedDateRange *DateRange      `json:"created_date_range,omitempty" yaml:"created_date_range,omitempty"`
	DueDateRange     *DateRange      `json:"due_date_range,omitempty" yaml:"due_date_range,omitempty"`
	IsOverdue        bool            `json:"is_overdue,omitempty" yaml:"is_overdue,omitempty"`
}

func (s Spec) HasText() bool {
	return strings.TrimSpace(s.Text) != ""
}

// ActiveClauses возвращает активные условия в фиксированном порядке
func (s Spec) ActiveClauses() []Clause {
	res := []Clause{}
	if s.HasText() {
		res = append(res, ClauseText)
	}
	if len(s.Status) > 0 {
		res = append(res, ClauseStatus)
	}
	if len(s.Priority) > 0 {
		res = append(res, ClausePriority)
	}
	if len(s.Tags) > 0 {
		res = append(res, ClauseTags)
	}
	if !s.CreatedDateRange.empty() {
		res = append(res, ClauseCreatedDate)
	}
	if !s.DueDateRange.empty() {
		res = append(res, ClauseDueDate)
	}
	if s.IsOverdue {
		res = append(res, ClauseOverdue)
	}
	return res
}

func (s Spec) IsEmpty() bool {
	return len(s.ActiveClauses()) == 0
}

// Normalize приводит спецификацию к каноническому виду: пустые наборы и
// интервалы становятся nil, повторы убираются, пустой текст сбрасывается.
// Исходное значение не меняется.
func (s Spec) Normalize() Spec {
	res := Spec{IsOverdue: s.IsOverdue}
	if s.HasText() {
		res.Text = s.Text
	}
	res.Status = dedupe(s.Status)
	res.Priority = dedupe(s.Priority)
	res.Tags = dedupe(nonBlank(s.Tags))
	res.CreatedDateRange = cloneRange(s.CreatedDateRange)
	res.DueDateRange = cloneRange(s.DueDateRange)
	return res
}

func dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(values))
	res := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

func nonBlank(values []string) []string {
	res := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

func cloneRange(r *DateRange) *DateRange {
	if r.empty() {
		return nil
	}
	res := &DateRange{}
	if r.From != nil {
		from := *r.From
		res.From = &from
	}
	if r.To != nil {
		to := *r.To
		res.To = &to
	}
	return res
}
