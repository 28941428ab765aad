package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskSearch/internal/config"
	"taskSearch/internal/handlers"
	"taskSearch/internal/logger"
	"taskSearch/internal/metrics"
	"taskSearch/internal/middleware"
	"taskSearch/internal/repository/task/inmemory"
	"taskSearch/internal/repository/task/postgres"
	"taskSearch/internal/search"
	"taskSearch/internal/service"
	"taskSearch/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const serviceName = "task-search"

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	service    *service.TaskService
	presets    *search.Presets
	metrics    *metrics.Metrics
	worker     *worker.StatsWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости. При ошибке уже созданные ресурсы освобождаются.
func (a *App) Init(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.initLogger(); err != nil {
		return err
	}
	if err := a.initRepository(ctx); err != nil {
		return err
	}
	if err := a.initSearch(); err != nil {
		return err
	}
	if err := a.initRouter(); err != nil {
		return err
	}

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.worker = worker.NewStatsWorker(a.service, a.config.Worker.StatsInterval)
	return nil
}

func (a *App) initLogger() error {
	err := logger.Init(logger.Options{
		Development: a.config.Logging.Development,
		Level:       a.config.Logging.Level,
		File:        a.config.Logging.File,
		MaxSizeMB:   a.config.Logging.MaxSizeMB,
		MaxBackups:  a.config.Logging.MaxBackups,
		MaxAgeDays:  a.config.Logging.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к базе: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие пула соединений")
			storage.Close()
		})

		if a.config.Database.Migrate {
			if err := storage.Migrate(); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}
		a.repository = storage
	default:
		a.repository = inmemory.NewTaskStorage()
	}

	logger.Info("App: Репозиторий готов", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) initSearch() error {
	a.presets = search.NewPresets()
	if path := a.config.Search.PresetsFile; path != "" {
		n, err := search.LoadPresetsFile(path, a.presets)
		if err != nil {
			return fmt.Errorf("загрузка пресетов: %w", err)
		}
		logger.Info("App: Пресеты загружены", zap.String("file", path), zap.Int("count", n))

		a.shutdowns = append(a.shutdowns, func() {
			if err := search.SavePresetsFile(path, a.presets); err != nil {
				logger.Error("App: Ошибка сохранения пресетов", err, zap.String("file", path))
				return
			}
			logger.Info("App: Пресеты сохранены", zap.String("file", path))
		})
	}

	options := []service.ServiceOption{
		service.WithPresets(a.presets),
		service.WithHistory(search.NewHistory(a.config.Search.HistoryCapacity)),
	}
	if a.config.Metrics.Enabled {
		a.metrics = metrics.New()
		options = append(options, service.WithMetrics(a.metrics))
	}
	a.service = service.NewTaskService(a.repository, options...)
	return nil
}

func (a *App) initRouter() error {
	loc, err := a.config.SearchLocation()
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	if timeout := a.config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}
	r.Use(middleware.RateLimit(a.config.RateLimit.RequestsPerMinute))

	handlers.NewTaskHandler(a.service, loc).Register(r)
	if a.metrics != nil {
		r.Method(http.MethodGet, a.config.Metrics.Path, a.metrics.Handler())
	}

	a.router = r
	return nil
}

// Handler - корневой обработчик с трассировкой запросов
func (a *App) Handler() http.Handler {
	return otelhttp.NewHandler(a.router, serviceName)
}

// Run запускает сервер и фоновое обновление статистики, блокируется до
// отмены ctx или ошибки сервера, затем корректно всё останавливает.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		a.worker.Start(workerCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: Получен сигнал остановки")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http сервер: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	stopWorker()
	<-workerDone

	a.Close()
	return runErr
}

// Close выполняет функции остановки в обратном порядке
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
