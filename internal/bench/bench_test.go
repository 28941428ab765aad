package bench_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskSearch/internal/bench"
	"taskSearch/internal/filter"
	"taskSearch/internal/models/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func generate(t *testing.T, seed int64, count int) []*task.Task {
	t.Helper()
	return bench.NewGenerator(bench.GeneratorConfig{Seed: seed, Now: now}).Generate(count)
}

// TestGenerate_Thousand тестирует размер, уникальность и долю дедлайнов
func TestGenerate_Thousand(t *testing.T) {
	tasks := generate(t, 42, 1000)
	require.Len(t, tasks, 1000)

	titles := make(map[string]struct{}, len(tasks))
	ids := make(map[uuid.UUID]struct{}, len(tasks))
	withDue, withDescription := 0, 0
	for _, tk := range tasks {
		titles[tk.Title] = struct{}{}
		ids[tk.ID] = struct{}{}
		if tk.DueDate != nil {
			withDue++
		}
		if tk.Description != "" {
			withDescription++
		}
	}

	assert.Len(t, titles, 1000, "заголовки уникальны")
	assert.Len(t, ids, 1000)
	assert.GreaterOrEqual(t, withDue, 600)
	assert.LessOrEqual(t, withDue, 800)
	assert.InDelta(t, 800, withDescription, 100)
}

// TestGenerate_FieldDistributions тестирует границы полей
func TestGenerate_FieldDistributions(t *testing.T) {
	tasks := generate(t, 7, 2000)

	statuses := map[task.Status]int{}
	priorities := map[task.Priority]int{}
	for _, tk := range tasks {
		assert.True(t, tk.Status.Valid())
		assert.True(t, tk.Priority.Valid())
		statuses[tk.Status]++
		priorities[tk.Priority]++

		assert.False(t, tk.CreatedAt.After(now))
		assert.True(t, tk.CreatedAt.After(now.AddDate(-1, 0, -1)))
		assert.False(t, tk.UpdatedAt.Before(tk.CreatedAt))
		assert.True(t, tk.UpdatedAt.Sub(tk.CreatedAt) < 30*24*time.Hour)

		if tk.DueDate != nil {
			assert.True(t, tk.DueDate.Sub(now).Abs() <= 30*24*time.Hour)
		}

		assert.LessOrEqual(t, len(tk.Tags), 5)
		seen := map[string]bool{}
		for _, tag := range tk.Tags {
			assert.False(t, seen[tag], "метки без повторов")
			seen[tag] = true
		}
	}

	assert.Len(t, statuses, 3)
	assert.Len(t, priorities, 3)
}

// TestGenerate_Deterministic тестирует воспроизводимость по зерну
func TestGenerate_Deterministic(t *testing.T) {
	a := generate(t, 99, 50)
	b := generate(t, 99, 50)
	c := generate(t, 100, 50)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

// TestGenerate_Empty тестирует граничные размеры
func TestGenerate_Empty(t *testing.T) {
	assert.Empty(t, generate(t, 1, 0))
	assert.Empty(t, generate(t, 1, -5))
}

// TestMeasure тестирует подсчёт обработанных и возвращённых элементов
func TestMeasure(t *testing.T) {
	tasks := generate(t, 3, 500)
	engine := filter.NewEngine(filter.WithClock(func() time.Time { return now }))
	spec := filter.Spec{Status: []task.Status{task.StatusTodo}}

	expected, err := engine.Apply(tasks, spec)
	require.NoError(t, err)

	res, err := bench.Measure(engine, tasks, spec, 4)
	require.NoError(t, err)

	assert.Equal(t, 2000, res.ItemsProcessed)
	assert.Equal(t, len(expected), res.ItemsReturned)
	assert.Equal(t, 4, res.Iterations)
	assert.Greater(t, res.ExecutionTime, time.Duration(0))
	assert.Greater(t, res.FilteringRate, 0.0)
	assert.GreaterOrEqual(t, res.StdDevIteration, time.Duration(0))

	expectedRate := float64(res.ItemsProcessed) / (float64(res.ExecutionTime) / float64(time.Millisecond))
	assert.InDelta(t, expectedRate, res.FilteringRate, 1e-6)
}

// TestMeasure_SingleIteration тестирует значения по умолчанию
func TestMeasure_SingleIteration(t *testing.T) {
	tasks := generate(t, 3, 10)

	res, err := bench.Measure(nil, tasks, filter.Spec{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, 10, res.ItemsProcessed)
	assert.Equal(t, 10, res.ItemsReturned)
	assert.Equal(t, res.ExecutionTime, res.MeanIteration)
	assert.Equal(t, time.Duration(0), res.StdDevIteration)
}

// TestMeasure_NilTasks тестирует передачу ошибки движка
func TestMeasure_NilTasks(t *testing.T) {
	_, err := bench.Measure(nil, nil, filter.Spec{}, 1)
	assert.ErrorIs(t, err, filter.ErrNilTasks)
}

// TestAcceptable тестирует порог пропускной способности
func TestAcceptable(t *testing.T) {
	assert.True(t, bench.Acceptable(bench.Result{FilteringRate: 1000}))
	assert.True(t, bench.Result{FilteringRate: 25000}.Acceptable())
	assert.False(t, bench.Acceptable(bench.Result{FilteringRate: 999.9}))
}

// TestDefaultScenarios тестирует состав батареи
func TestDefaultScenarios(t *testing.T) {
	scenarios := bench.DefaultScenarios(now)
	require.Len(t, scenarios, 6)

	sizes := map[int]int{}
	for _, sc := range scenarios {
		sizes[sc.Size]++
		assert.False(t, sc.Filters.IsEmpty())
	}
	assert.Equal(t, map[int]int{1000: 2, 10000: 2, 50000: 2}, sizes)
	assert.Len(t, scenarios[1].Filters.ActiveClauses(), 5)
	assert.Equal(t, "text 10K", scenarios[2].Name)
}

// TestScenarios_CustomSizes тестирует батарею с нестандартными размерами
func TestScenarios_CustomSizes(t *testing.T) {
	scenarios := bench.Scenarios(now, []int{250, 2000}, 3)
	require.Len(t, scenarios, 4)
	assert.Equal(t, "text 250", scenarios[0].Name)
	assert.Equal(t, "multi 2K", scenarios[3].Name)
	for _, sc := range scenarios {
		assert.Equal(t, 3, sc.Iterations)
	}
}

// TestSuite_Run тестирует прогон батареи и отчёт
func TestSuite_Run(t *testing.T) {
	suite := bench.Suite{
		Seed: 11,
		Now:  now,
		Scenarios: []bench.Scenario{
			{Name: "text small", Size: 200, Filters: filter.Spec{Text: "bug"}, Iterations: 2},
			{Name: "status small", Size: 200, Filters: filter.Spec{Status: []task.Status{task.StatusCompleted}}, Iterations: 1},
			{Name: "overdue", Size: 300, Filters: filter.Spec{IsOverdue: true}, Iterations: 1},
		},
	}

	results, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, suite.Scenarios[i].Name, r.Scenario.Name)
		assert.Equal(t, r.Scenario.Size*r.Scenario.Iterations, r.Result.ItemsProcessed)
		assert.LessOrEqual(t, r.Result.ItemsReturned, r.Scenario.Size)
	}

	report := bench.Report(results)
	for _, header := range []string{"Scenario", "Rate, items/ms", "Status"} {
		assert.Contains(t, report, header)
	}
	assert.Contains(t, report, "text small")
	assert.Contains(t, report, "overdue")
}

// TestSuite_Cancelled тестирует отмену контекста
func TestSuite_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite := bench.Suite{Seed: 1, Now: now, Scenarios: []bench.Scenario{{Name: "x", Size: 10}}}
	_, err := suite.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestReport_Verdicts тестирует пометки PASS и SLOW
func TestReport_Verdicts(t *testing.T) {
	report := bench.Report([]bench.ScenarioResult{
		{Scenario: bench.Scenario{Name: "fast", Size: 10}, Result: bench.Result{FilteringRate: 5000}},
		{Scenario: bench.Scenario{Name: "slow", Size: 10}, Result: bench.Result{FilteringRate: 10}},
	})

	lines := strings.Split(report, "\n")
	var fast, slow string
	for _, line := range lines {
		if strings.Contains(line, "fast") {
			fast = line
		}
		if strings.Contains(line, "slow") {
			slow = line
		}
	}
	assert.Contains(t, fast, "PASS")
	assert.Contains(t, slow, "SLOW")

	assert.False(t, bench.AllAcceptable([]bench.ScenarioResult{
		{Result: bench.Result{FilteringRate: 5000}},
		{Result: bench.Result{FilteringRate: 10}},
	}))
	assert.True(t, bench.AllAcceptable(nil))
}
