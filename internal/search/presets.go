// Package search хранит именованные пресеты фильтров и историю применённых поисков.
// Оба списка защищены мьютексом: обработчики HTTP вызывают их параллельно.
package search

import (
	"errors"
	"sync"

	"taskSearch/internal/filter"

	"github.com/google/uuid"
)

var ErrPresetNotFound = errors.New("пресет не найден")

type Preset struct {
	ID        uuid.UUID   `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Filters   filter.Spec `json:"filters" yaml:"filters"`
	IsDefault bool        `json:"is_default,omitempty" yaml:"is_default,omitempty"`
}

type Presets struct {
	mtx   *sync.RWMutex
	items []Preset
}

func NewPresets() *Presets {
	return &Presets{
		mtx:   &sync.RWMutex{},
		items: []Preset{},
	}
}

// Add создаёт пресет с новым id. Имена не обязаны быть уникальными,
// признак IsDefault ни на что не влияет.
func (p *Presets) Add(name string, filters filter.Spec, isDefault bool) Preset {
	preset := Preset{
		ID:        uuid.New(),
		Name:      name,
		Filters:   filters.Normalize(),
		IsDefault: isDefault,
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.items = append(p.items, preset)
	return preset
}

// Restore добавляет пресеты с уже известными id, например при загрузке из файла.
// Пресет с существующим id заменяется.
func (p *Presets) Restore(presets ...Preset) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for _, preset := range presets {
		if preset.ID == uuid.Nil {
			preset.ID = uuid.New()
		}
		preset.Filters = preset.Filters.Normalize()

		replaced := false
		for i := range p.items {
			if p.items[i].ID == preset.ID {
				p.items[i] = preset
				replaced = true
				break
			}
		}
		if !replaced {
			p.items = append(p.items, preset)
		}
	}
}

func (p *Presets) Remove(id uuid.UUID) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for ind, preset := range p.items {
		if preset.ID == id {
			p.items = append(p.items[:ind], p.items[ind+1:]...)
			return nil
		}
	}
	return ErrPresetNotFound
}

func (p *Presets) Get(id uuid.UUID) (Preset, error) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	for _, preset := range p.items {
		if preset.ID == id {
			return preset, nil
		}
	}
	return Preset{}, ErrPresetNotFound
}

// List возвращает пресеты в порядке добавления
func (p *Presets) List() []Preset {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	res := make([]Preset, len(p.items))
	copy(res, p.items)
	return res
}
