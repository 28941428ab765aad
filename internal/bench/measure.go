package bench

import (
	"fmt"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/models/task"

	"gonum.org/v1/gonum/stat"
)

// AcceptableRate - порог пропускной способности, элементов в миллисекунду
const AcceptableRate = 1000.0

type Result struct {
	ExecutionTime   time.Duration `json:"execution_time"`
	ItemsProcessed  int           `json:"items_processed"`
	ItemsReturned   int           `json:"items_returned"`
	FilteringRate   float64       `json:"filtering_rate"`
	Iterations      int           `json:"iterations"`
	MeanIteration   time.Duration `json:"mean_iteration"`
	StdDevIteration time.Duration `json:"stddev_iteration"`
}

func (r Result) Acceptable() bool {
	return Acceptable(r)
}

func Acceptable(r Result) bool {
	return r.FilteringRate >= AcceptableRate
}

// Measure прогоняет движок iterations раз над одним и тем же набором.
// ItemsReturned берётся из последней итерации.
func Measure(engine *filter.Engine, tasks []*task.Task, spec filter.Spec, iterations int) (Result, error) {
	if engine == nil {
		engine = filter.NewEngine()
	}
	if iterations < 1 {
		iterations = 1
	}

	samples := make([]float64, 0, iterations)
	var (
		total    time.Duration
		returned int
	)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		res, err := engine.Apply(tasks, spec)
		elapsed := time.Since(start)
		if err != nil {
			return Result{}, fmt.Errorf("итерация %d: %w", i+1, err)
		}

		total += elapsed
		returned = len(res)
		samples = append(samples, float64(elapsed))
	}

	result := Result{
		ExecutionTime:  total,
		ItemsProcessed: len(tasks) * iterations,
		ItemsReturned:  returned,
		FilteringRate:  rate(len(tasks)*iterations, total),
		Iterations:     iterations,
	}

	if iterations > 1 {
		mean, std := stat.MeanStdDev(samples, nil)
		result.MeanIteration = time.Duration(mean)
		result.StdDevIteration = time.Duration(std)
	} else {
		result.MeanIteration = total
	}
	return result, nil
}

// rate - элементов в миллисекунду; нулевое время считается за 1нс
func rate(items int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(items) / (float64(elapsed) / float64(time.Millisecond))
}
