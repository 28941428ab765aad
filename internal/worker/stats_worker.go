package worker

import (
	"context"
	"time"

	"taskSearch/internal/logger"
	"taskSearch/internal/stats"

	"go.uber.org/zap"
)

const DefaultInterval = time.Minute

// StatsRefresher пересчитывает сводку и обновляет метрики
type StatsRefresher interface {
	RefreshMetrics(ctx context.Context) (stats.Summary, error)
}

// StatsWorker периодически обновляет метрики статистики задач
type StatsWorker struct {
	refresher StatsRefresher
	interval  time.Duration
}

func NewStatsWorker(refresher StatsRefresher, interval time.Duration) *StatsWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &StatsWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Start блокируется до отмены ctx. Первый пересчёт выполняется сразу.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Обновление статистики останавливается")
			return
		}
	}
}

func (w *StatsWorker) Check(ctx context.Context) {
	start := time.Now()

	summary, err := w.refresher.RefreshMetrics(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка обновления статистики", zap.Error(err))
		return
	}

	logger.Info("Worker: Статистика обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("total", summary.Total),
		zap.Int("overdue", summary.Overdue),
		zap.Int("completion_rate", summary.CompletionRate))
}
