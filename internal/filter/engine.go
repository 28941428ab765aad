package filter

import (
	"errors"
	"fmt"
	"time"

	"taskSearch/internal/models/task"
	"taskSearch/internal/textmatch"
)

var ErrNilTasks = errors.New("коллекция задач не задана")

type Engine struct {
	now func() time.Time
}

type EngineOption func(*Engine)

// WithClock подменяет источник текущего времени для условия просрочки
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(options ...EngineOption) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range options {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

func Apply(tasks []*task.Task, spec Spec) ([]*task.Task, error) {
	return defaultEngine.Apply(tasks, spec)
}

// Apply возвращает упорядоченную подпоследовательность tasks, прошедшую все
// активные условия. Ни задачи, ни спецификация не изменяются.
func (e *Engine) Apply(tasks []*task.Task, spec Spec) ([]*task.Task, error) {
	if tasks == nil {
		return nil, ErrNilTasks
	}

	p := compile(spec, e.now())
	res := make([]*task.Task, 0, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return nil, fmt.Errorf("%w: задача #%d равна nil", ErrNilTasks, i)
		}
		if p.match(t) {
			res = append(res, t)
		}
	}
	return res, nil
}

// predicate - спецификация, подготовленная к проверке множества задач
type predicate struct {
	text     *textmatch.Matcher
	status   map[task.Status]struct{}
	priority map[task.Priority]struct{}
	tags     map[string]struct{}
	created  *DateRange
	due      *DateRange
	overdue  bool
	now      time.Time
}

func compile(spec Spec, now time.Time) *predicate {
	spec = spec.Normalize()
	p := &predicate{
		now:     now,
		overdue: spec.IsOverdue,
	}
	if spec.HasText() {
		p.text = textmatch.Compile(spec.Text, false)
	}
	if len(spec.Status) > 0 {
		p.status = make(map[task.Status]struct{}, len(spec.Status))
		for _, s := range spec.Status {
			p.status[s] = struct{}{}
		}
	}
	if len(spec.Priority) > 0 {
		p.priority = make(map[task.Priority]struct{}, len(spec.Priority))
		for _, pr := range spec.Priority {
			p.priority[pr] = struct{}{}
		}
	}
	if len(spec.Tags) > 0 {
		p.tags = make(map[string]struct{}, len(spec.Tags))
		for _, tag := range spec.Tags {
			p.tags[tag] = struct{}{}
		}
	}
	if !spec.CreatedDateRange.empty() {
		p.created = spec.CreatedDateRange
	}
	if !spec.DueDateRange.empty() {
		p.due = spec.DueDateRange
	}
	return p
}

// match проверяет условия по очереди и выходит на первом несовпадении
func (p *predicate) match(t *task.Task) bool {
	if p.text != nil && !p.matchText(t) {
		return false
	}
	if p.status != nil && !p.matchStatus(t.Status) {
		return false
	}
	if p.priority != nil && !p.matchPriority(t.Priority) {
		return false
	}
	if p.tags != nil && !p.matchTags(t.Tags) {
		return false
	}
	if p.created != nil && !p.created.Contains(t.CreatedAt) {
		return false
	}
	if p.due != nil && (t.DueDate == nil || !p.due.Contains(*t.DueDate)) {
		return false
	}
	if p.overdue && !t.IsOverdue(p.now) {
		return false
	}
	return true
}

func (p *predicate) matchText(t *task.Task) bool {
	if p.text.Match(t.Title) {
		return true
	}
	if t.Description != "" && p.text.Match(t.Description) {
		return true
	}
	for _, tag := range t.Tags {
		if p.text.Match(tag) {
			return true
		}
	}
	return false
}

func (p *predicate) matchStatus(s task.Status) bool {
	switch s {
	case task.StatusTodo, task.StatusInProgress, task.StatusCompleted:
		_, ok := p.status[s]
		return ok
	default:
		return false
	}
}

func (p *predicate) matchPriority(pr task.Priority) bool {
	switch pr {
	case task.PriorityLow, task.PriorityMedium, task.PriorityHigh:
		_, ok := p.priority[pr]
		return ok
	default:
		return false
	}
}

func (p *predicate) matchTags(tags []string) bool {
	for _, tag := range tags {
		if _, ok := p.tags[tag]; ok {
			return true
		}
	}
	return false
}
