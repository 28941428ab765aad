package search_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/models/task"
	"taskSearch/internal/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func todoSpec() filter.Spec {
	return filter.Spec{Status: []task.Status{task.StatusTodo}}
}

// TestPresets_AddListRemove тестирует жизненный цикл пресетов
func TestPresets_AddListRemove(t *testing.T) {
	store := search.NewPresets()

	first := store.Add("My todo", todoSpec(), true)
	second := store.Add("My todo", filter.Spec{Text: "bug", Tags: []string{}}, true)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "id уникален даже при одинаковых именах")
	assert.Nil(t, second.Filters.Tags, "фильтр сохраняется нормализованным")

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.True(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault, "несколько пресетов по умолчанию допустимы")

	got, err := store.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "bug", got.Filters.Text)

	require.NoError(t, store.Remove(first.ID))
	assert.ErrorIs(t, store.Remove(first.ID), search.ErrPresetNotFound)

	_, err = store.Get(first.ID)
	assert.ErrorIs(t, err, search.ErrPresetNotFound)
	assert.Len(t, store.List(), 1)
}

// TestPresets_ListIsCopy тестирует, что список нельзя изменить снаружи
func TestPresets_ListIsCopy(t *testing.T) {
	store := search.NewPresets()
	store.Add("a", todoSpec(), false)

	list := store.List()
	list[0].Name = "changed"

	assert.Equal(t, "a", store.List()[0].Name)
}

// TestPresets_Restore тестирует загрузку пресетов с известными id
func TestPresets_Restore(t *testing.T) {
	store := search.NewPresets()
	id := uuid.New()

	store.Restore(search.Preset{ID: id, Name: "old"})
	store.Restore(search.Preset{ID: id, Name: "new"}, search.Preset{Name: "no id"})

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Name)
	assert.NotEqual(t, uuid.Nil, list[1].ID)
}

// TestHistory_Record тестирует запись только непустых поисков
func TestHistory_Record(t *testing.T) {
	h := search.NewHistory(0)

	_, ok := h.Record("", filter.Spec{}, base)
	assert.False(t, ok, "пустой поиск не записывается")
	_, ok = h.Record("  ", filter.Spec{Text: "  ", Status: []task.Status{}}, base)
	assert.False(t, ok)
	_, ok = h.Record("", filter.Spec{Tags: []string{"", ""}, DueDateRange: &filter.DateRange{}}, base)
	assert.False(t, ok, "фильтр, пустой после нормализации, не записывается")
	assert.Zero(t, h.Len())

	item, ok := h.Record("bug", filter.Spec{Text: "bug"}, base)
	assert.True(t, ok)
	assert.Equal(t, "bug", item.Query)
	assert.Equal(t, base, item.Timestamp)

	h.Record("", todoSpec(), base.Add(time.Minute))

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, base.Add(time.Minute), list[0].Timestamp, "новые записи первыми")
	assert.Equal(t, "bug", list[1].Query)
}

// TestHistory_Unbounded тестирует поведение без ограничения ёмкости
func TestHistory_Unbounded(t *testing.T) {
	h := search.NewHistory(0)
	for i := 0; i < 20; i++ {
		h.Record(fmt.Sprintf("q%d", i), filter.Spec{Text: "x"}, base.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, 20, h.Len())
	recent := h.Recent(search.DisplayLimit)
	require.Len(t, recent, 5)
	assert.Equal(t, "q19", recent[0].Query)
	assert.Equal(t, "q15", recent[4].Query)
}

// TestHistory_Capacity тестирует вытеснение старых записей
func TestHistory_Capacity(t *testing.T) {
	h := search.NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Record(fmt.Sprintf("q%d", i), filter.Spec{Text: "x"}, base)
	}

	list := h.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"q4", "q3", "q2"}, []string{list[0].Query, list[1].Query, list[2].Query})
	assert.Equal(t, 3, h.Capacity())
}

// TestHistory_Clear тестирует очистку
func TestHistory_Clear(t *testing.T) {
	h := search.NewHistory(10)
	h.Record("bug", filter.Spec{Text: "bug"}, base)
	h.Clear()

	assert.Empty(t, h.List())
	assert.Equal(t, 0, h.Len())
}

// TestHistory_Concurrent тестирует параллельную запись
func TestHistory_Concurrent(t *testing.T) {
	h := search.NewHistory(0)
	presets := search.NewPresets()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Record("q", filter.Spec{Text: "x"}, base)
			presets.Add(fmt.Sprintf("p%d", i), todoSpec(), false)
			_ = h.Recent(search.DisplayLimit)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, h.Len())
	assert.Len(t, presets.List(), 50)
}

// TestPresetFile_RoundTrip тестирует экспорт и импорт YAML
func TestPresetFile_RoundTrip(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := search.NewPresets()
	store.Add("Overdue high", filter.Spec{
		Priority:     []task.Priority{task.PriorityHigh},
		IsOverdue:    true,
		DueDateRange: &filter.DateRange{From: &from},
	}, true)
	store.Add("Docs", filter.Spec{Tags: []string{"docs"}}, false)

	var buf bytes.Buffer
	require.NoError(t, search.WritePresets(&buf, store.List()))
	assert.Contains(t, buf.String(), "version: \"1.0\"")

	restored, err := search.ReadPresets(&buf)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	original := store.List()
	for i := range original {
		assert.Equal(t, original[i].ID, restored[i].ID)
		assert.Equal(t, original[i].Name, restored[i].Name)
		assert.Equal(t, original[i].IsDefault, restored[i].IsDefault)
		assert.Equal(t, filter.Encode(original[i].Filters), filter.Encode(restored[i].Filters))
	}
}

// TestPresetFile_Invalid тестирует ошибки разбора
func TestPresetFile_Invalid(t *testing.T) {
	_, err := search.ReadPresets(strings.NewReader("presets:\n  - id: not-a-uuid\n    name: x\n"))
	assert.Error(t, err)

	presets, err := search.ReadPresets(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, presets)
}

// TestPresetFile_SaveLoad тестирует сохранение на диск
func TestPresetFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "presets.yaml")

	n, err := search.LoadPresetsFile(path, search.NewPresets())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "отсутствующий файл не ошибка")

	store := search.NewPresets()
	saved := store.Add("Mine", todoSpec(), false)
	require.NoError(t, search.SavePresetsFile(path, store))

	loaded := search.NewPresets()
	n, err = search.LoadPresetsFile(path, loaded)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := loaded.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []task.Status{task.StatusTodo}, got.Filters.Status)
}
