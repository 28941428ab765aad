package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskSearch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoad_File тестирует чтение YAML поверх значений по умолчанию
func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
search:
  history_capacity: 0
  location: Europe/Moscow
worker:
  stats_interval: 15s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.GetServerAddr())
	assert.Equal(t, 0, cfg.Search.HistoryCapacity)
	assert.Equal(t, 15*time.Second, cfg.Worker.StatsInterval)
	assert.Equal(t, "inmemory", cfg.Repository.Type)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	loc, err := cfg.SearchLocation()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

// TestLoad_Env тестирует переопределение через переменные окружения
func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	t.Setenv("TASKSEARCH_SERVER_PORT", "7070")
	t.Setenv("TASKSEARCH_SEARCH_HISTORY_CAPACITY", "7")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 7, cfg.Search.HistoryCapacity)
}

// TestLoad_EnvOnly тестирует конфигурацию только из окружения, без config.yml
func TestLoad_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKSEARCH_REPOSITORY_TYPE", "postgres")
	t.Setenv("TASKSEARCH_DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("TASKSEARCH_LOGGING_FILE", "/var/log/task-search.log")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Repository.Type)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.URL)
	assert.Equal(t, "/var/log/task-search.log", cfg.Logging.File)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
}

// TestLoad_Invalid тестирует ошибки валидации
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown repository", body: "repository:\n  type: mongo\n"},
		{name: "postgres without url", body: "repository:\n  type: postgres\n"},
		{name: "bad location", body: "search:\n  location: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

// TestLoad_MissingExplicitFile тестирует явно указанный, но отсутствующий файл
func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
