package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMigrateURL тестирует перевод строки подключения на схему pgx5
func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "postgres://u:p@localhost:5432/db", expected: "pgx5://u:p@localhost:5432/db"},
		{in: "postgresql://u@host/db?sslmode=disable", expected: "pgx5://u@host/db?sslmode=disable"},
		{in: "pgx5://already", expected: "pgx5://already"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, migrateURL(tt.in))
	}
}

// TestMigrationsEmbedded тестирует наличие файлов миграций
func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 4)
}
