package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestInit_FileSink тестирует запись логов в файл
func TestInit_FileSink(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(Options{Level: "info", File: path}))

	Info("Test: запись", zap.String("key", "value"))
	Error("Test: ошибка", errors.New("boom"))
	Debug("Test: не должно попасть в файл")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), `"error":"boom"`)
	assert.NotContains(t, string(data), "не должно попасть")
}

// TestInit_BadLevel тестирует неизвестный уровень
func TestInit_BadLevel(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	assert.Error(t, Init(Options{Level: "loud"}))
}
