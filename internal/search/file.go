package search

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taskSearch/internal/filter"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const presetFileVersion = "1.0"

type presetFile struct {
	Version string         `yaml:"version"`
	Presets []presetRecord `yaml:"presets"`
}

type presetRecord struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Filters   filter.Spec `yaml:"filters"`
	IsDefault bool        `yaml:"is_default,omitempty"`
}

func WritePresets(w io.Writer, presets []Preset) error {
	file := presetFile{
		Version: presetFileVersion,
		Presets: make([]presetRecord, 0, len(presets)),
	}
	for _, p := range presets {
		file.Presets = append(file.Presets, presetRecord{
			ID:        p.ID.String(),
			Name:      p.Name,
			Filters:   p.Filters.Normalize(),
			IsDefault: p.IsDefault,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("запись пресетов: %w", err)
	}
	return encoder.Close()
}

// ReadPresets читает пресеты; записи без id получают новый id
func ReadPresets(r io.Reader) ([]Preset, error) {
	var file presetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []Preset{}, nil
		}
		return nil, fmt.Errorf("чтение пресетов: %w", err)
	}

	res := make([]Preset, 0, len(file.Presets))
	for i, rec := range file.Presets {
		id := uuid.New()
		if rec.ID != "" {
			parsed, err := uuid.Parse(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("пресет #%d: неверный id %q: %w", i, rec.ID, err)
			}
			id = parsed
		}
		res = append(res, Preset{
			ID:        id,
			Name:      rec.Name,
			Filters:   rec.Filters.Normalize(),
			IsDefault: rec.IsDefault,
		})
	}
	return res, nil
}

// LoadPresetsFile добавляет в store пресеты из файла. Отсутствие файла не ошибка.
func LoadPresetsFile(path string, store *Presets) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	presets, err := ReadPresets(file)
	if err != nil {
		return 0, err
	}
	store.Restore(presets...)
	return len(presets), nil
}

// SavePresetsFile атомарно перезаписывает файл через временный файл
func SavePresetsFile(path string, store *Presets) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("создание каталога: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".presets-*.yaml")
	if err != nil {
		return fmt.Errorf("временный файл: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WritePresets(tmp, store.List()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("закрытие временного файла: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("замена %s: %w", path, err)
	}
	return nil
}
