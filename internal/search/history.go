package search

import (
	"sync"
	"time"

	"taskSearch/internal/filter"

	"github.com/google/uuid"
)

// DisplayLimit - сколько последних поисков показывает клиент
const DisplayLimit = 5

type HistoryItem struct {
	ID        uuid.UUID   `json:"id"`
	Query     string      `json:"query"`
	Filters   filter.Spec `json:"filters"`
	Timestamp time.Time   `json:"timestamp"`
}

// History хранит последние применённые поиски.
// capacity <= 0 - без ограничения, иначе самые старые записи вытесняются.
type History struct {
	mtx      *sync.RWMutex
	items    []HistoryItem
	capacity int
}

func NewHistory(capacity int) *History {
	return &History{
		mtx:      &sync.RWMutex{},
		items:    []HistoryItem{},
		capacity: capacity,
	}
}

func (h *History) Capacity() int {
	return h.capacity
}

// Record добавляет запись, только если в фильтре есть хотя бы одно активное условие.
// Второе значение сообщает, была ли запись добавлена.
func (h *History) Record(query string, filters filter.Spec, timestamp time.Time) (HistoryItem, bool) {
	filters = filters.Normalize()
	if filters.IsEmpty() {
		return HistoryItem{}, false
	}

	item := HistoryItem{
		ID:        uuid.New(),
		Query:     query,
		Filters:   filters,
		Timestamp: timestamp,
	}

	h.mtx.Lock()
	defer h.mtx.Unlock()

	h.items = append(h.items, item)
	if h.capacity > 0 && len(h.items) > h.capacity {
		h.items = append([]HistoryItem(nil), h.items[len(h.items)-h.capacity:]...)
	}
	return item, true
}

// List возвращает записи от новых к старым
func (h *History) List() []HistoryItem {
	return h.Recent(0)
}

// Recent возвращает не более limit последних записей, limit <= 0 - все
func (h *History) Recent(limit int) []HistoryItem {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	n := len(h.items)
	if limit > 0 && limit < n {
		n = limit
	}

	res := make([]HistoryItem, 0, n)
	for i := len(h.items) - 1; i >= 0 && len(res) < n; i-- {
		res = append(res, h.items[i])
	}
	return res
}

func (h *History) Len() int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.items)
}

func (h *History) Clear() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.items = []HistoryItem{}
}
