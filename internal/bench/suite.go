package bench

import (
	"context"
	"fmt"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/logger"
	"taskSearch/internal/models/task"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Scenario struct {
	Name       string
	Size       int
	Filters    filter.Spec
	Iterations int
}

type ScenarioResult struct {
	Scenario Scenario
	Result   Result
}

func (r ScenarioResult) Acceptable() bool {
	return r.Result.Acceptable()
}

// DefaultSizes - размеры наборов стандартной батареи
var DefaultSizes = []int{1_000, 10_000, 50_000}

// DefaultIterations - число повторов замера в стандартной батарее
const DefaultIterations = 5

// DefaultScenarios строит батарею: каждый размер с простым текстовым
// и с составным фильтром.
func DefaultScenarios(now time.Time) []Scenario {
	return Scenarios(now, DefaultSizes, DefaultIterations)
}

func Scenarios(now time.Time, sizes []int, iterations int) []Scenario {
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 14)

	textOnly := filter.Spec{Text: "bug"}
	multi := filter.Spec{
		Text:         "api",
		Status:       []task.Status{task.StatusTodo, task.StatusInProgress},
		Priority:     []task.Priority{task.PriorityHigh, task.PriorityMedium},
		Tags:         []string{"backend", "api", "urgent"},
		DueDateRange: &filter.DateRange{From: &from, To: &to},
	}

	res := make([]Scenario, 0, len(sizes)*2)
	for _, size := range sizes {
		label := sizeLabel(size)
		res = append(res,
			Scenario{Name: "text " + label, Size: size, Filters: textOnly, Iterations: iterations},
			Scenario{Name: "multi " + label, Size: size, Filters: multi, Iterations: iterations},
		)
	}
	return res
}

func sizeLabel(size int) string {
	if size >= 1000 && size%1000 == 0 {
		return fmt.Sprintf("%dK", size/1000)
	}
	return fmt.Sprintf("%d", size)
}

type Suite struct {
	Scenarios []Scenario
	Seed      int64
	Now       time.Time
	Engine    *filter.Engine
}

// Run генерирует наборы данных параллельно, а замеры выполняет
// последовательно, чтобы они не мешали друг другу.
func (s *Suite) Run(ctx context.Context) ([]ScenarioResult, error) {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}
	engine := s.Engine
	if engine == nil {
		engine = filter.NewEngine(filter.WithClock(func() time.Time { return now }))
	}

	datasets, err := s.generate(ctx, now)
	if err != nil {
		return nil, err
	}

	results := make([]ScenarioResult, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := Measure(engine, datasets[sc.Size], sc.Filters, sc.Iterations)
		if err != nil {
			return results, fmt.Errorf("сценарий %q: %w", sc.Name, err)
		}

		logger.Debug("Bench: сценарий выполнен",
			zap.String("scenario", sc.Name),
			zap.Int("size", sc.Size),
			zap.Int("returned", res.ItemsReturned),
			zap.Float64("rate", res.FilteringRate),
			zap.Duration("ms", res.ExecutionTime),
		)
		results = append(results, ScenarioResult{Scenario: sc, Result: res})
	}
	return results, nil
}

func (s *Suite) generate(ctx context.Context, now time.Time) (map[int][]*task.Task, error) {
	sizes := make([]int, 0, len(s.Scenarios))
	seen := make(map[int]struct{}, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		if _, ok := seen[sc.Size]; ok {
			continue
		}
		seen[sc.Size] = struct{}{}
		sizes = append(sizes, sc.Size)
	}

	generated := make([][]*task.Task, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, size := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seed := s.Seed
			if seed != 0 {
				seed += int64(i)
			}
			start := time.Now()
			generated[i] = NewGenerator(GeneratorConfig{Seed: seed, Now: now}).Generate(size)
			logger.Debug("Bench: набор сгенерирован",
				zap.Int("size", size),
				zap.Duration("ms", time.Since(start)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	datasets := make(map[int][]*task.Task, len(sizes))
	for i, size := range sizes {
		datasets[size] = generated[i]
	}
	return datasets, nil
}
