// Package bench генерирует синтетические наборы задач и замеряет
// производительность движка фильтрации на них.
package bench

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"taskSearch/internal/models/task"

	"github.com/google/uuid"
)

var (
	titlePhrases = []string{
		"Implement user authentication",
		"Fix navigation bug",
		"Write API documentation",
		"Refactor database layer",
		"Update dependencies",
		"Design landing page",
		"Review pull request",
		"Optimize search performance",
		"Add unit tests",
		"Set up CI pipeline",
		"Migrate legacy data",
		"Prepare release notes",
	}

	descriptions = []string{
		"Needs coordination with the backend team before starting.",
		"Follow the existing conventions in the codebase.",
		"Blocked until the design review is finished.",
		"Low risk change, can be shipped independently.",
		"Check edge cases with empty and very large inputs.",
		"Customer reported this twice last week.",
		"Pair with QA to verify on staging.",
		"Keep backwards compatibility with the public API.",
	}

	tagVocabulary = []string{
		"frontend", "backend", "bug", "feature", "docs",
		"urgent", "ui", "api", "database", "testing",
		"security", "performance", "devops", "refactor",
	}
)

const (
	descriptionRate = 0.8
	dueDateRate     = 0.7
	maxTags         = 5
	dueWindow       = 30 * 24 * time.Hour
	createdWindow   = 365 * 24 * time.Hour
	updatedWindow   = 30 * 24 * time.Hour
)

// GeneratorConfig - Seed 0 означает случайное зерно, Now нулевое - time.Now()
type GeneratorConfig struct {
	Seed int64
	Now  time.Time
}

// Generator не безопасен для параллельного использования
type Generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
	now time.Time
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	src := rand.NewChaCha8(key)

	return &Generator{
		src: src,
		rng: rand.New(src),
		now: now,
	}
}

// Generate создаёт count задач. Заголовки уникальны за счёт суффикса с индексом.
func (g *Generator) Generate(count int) []*task.Task {
	if count < 0 {
		count = 0
	}

	tasks := make([]*task.Task, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, g.next(i))
	}
	return tasks
}

func (g *Generator) next(i int) *task.Task {
	statuses := task.Statuses()
	priorities := task.Priorities()

	createdAt := g.now.Add(-g.duration(createdWindow))
	updatedAt := createdAt.Add(g.duration(updatedWindow))

	t := &task.Task{
		ID:        g.id(),
		Title:     fmt.Sprintf("%s #%d", pick(g.rng, titlePhrases), i+1),
		Status:    pick(g.rng, statuses),
		Priority:  pick(g.rng, priorities),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Version:   1,
	}

	if g.rng.Float64() < descriptionRate {
		t.Description = pick(g.rng, descriptions)
	}
	if g.rng.Float64() < dueDateRate {
		due := g.now.Add(g.duration(2*dueWindow) - dueWindow)
		t.DueDate = &due
	}

	tags := make([]string, 0, maxTags)
	for n := g.rng.IntN(maxTags + 1); n > 0; n-- {
		tags = append(tags, pick(g.rng, tagVocabulary))
	}
	task.Apply(t, task.WithTags(tags))

	return t
}

func (g *Generator) id() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8.Read не возвращает ошибок
		return uuid.New()
	}
	return id
}

// duration возвращает случайную длительность в [0, window)
func (g *Generator) duration(window time.Duration) time.Duration {
	return time.Duration(g.rng.Int64N(int64(window)))
}

func pick[T any](rng *rand.Rand, pool []T) T {
	return pool[rng.IntN(len(pool))]
}
