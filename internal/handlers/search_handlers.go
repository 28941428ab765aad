package handlers

import (
	"net/http"
	"net/url"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/handlers/dto"
	"taskSearch/internal/logger"
	"taskSearch/internal/search"
	"taskSearch/internal/service"

	"go.uber.org/zap"
)

// параметры, не относящиеся к фильтру
const (
	paramPage   = "page"
	paramLimit  = "limit"
	paramRecord = "record"
)

// SearchTasks фильтрует задачи по параметрам запроса.
// Без page/limit возвращается вся выборка, record=false не пишет поиск в историю.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	page, ok := parseIntParam(w, r, paramPage, 1, 1)
	if !ok {
		return
	}
	limit, ok := parseIntParam(w, r, paramLimit, 0, 0)
	if !ok {
		return
	}

	spec := h.codec.Decode(r.URL.Query())
	res, err := h.service.Search(r.Context(), spec, parseBoolParam(r, paramRecord, true))
	if err != nil {
		handleServiceError(w, r, err, "search_tasks")
		return
	}

	logger.Info("HTTP_OUT: Поиск выполнен",
		zap.Int("matched", len(res.Tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	resp := h.searchResponse(res, page, limit)
	responseWithJSON(w, http.StatusOK,
		toPayload("result", resp),
		toPayload("recorded", res.Recorded != nil))
}

func (h *TaskHandler) searchResponse(res *service.SearchResult, page, limit int) dto.SearchResponse {
	tasks := res.Tasks
	if limit > 0 {
		tasks = pageOf(tasks, page, limit)
	} else {
		page = 0
	}

	return dto.SearchResponse{
		Tasks:       dto.FromTaskList(tasks, h.service.Now(), res.Filters.Text),
		Total:       res.Total,
		Matched:     len(res.Tasks),
		Page:        page,
		Limit:       limit,
		Description: res.Description,
		Query:       h.codec.Encode(res.Filters).Encode(),
		ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
	}
}

// pageOf возвращает страницу page (с 1) размера limit > 0.
// Номер страницы сверяется делением, смещение считается только для
// существующей страницы и не переполняется.
func pageOf[T any](items []T, page, limit int) []T {
	if page < 1 || (page-1) > (len(items)-1)/limit {
		return items[:0]
	}
	from := (page - 1) * limit
	if limit >= len(items)-from {
		return items[from:]
	}
	return items[from : from+limit]
}

func (h *TaskHandler) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.service.OverdueTasks(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "overdue_tasks")
		return
	}

	logger.Info("HTTP_OUT: Просроченные задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, h.service.Now(), "")),
		toPayload("count", len(tasks)))
}

// Stats считает сводку по задачам, подходящим под параметры фильтра
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	spec := h.codec.Decode(r.URL.Query())
	summary, err := h.service.Stats(r.Context(), spec)
	if err != nil {
		handleServiceError(w, r, err, "stats")
		return
	}

	logger.Info("HTTP_OUT: Статистика получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("stats", dto.StatsResponse{
		Summary:     summary,
		Description: filter.Describe(spec),
		GeneratedAt: h.service.Now(),
	}))
}

// DescribeFilters возвращает нормализованный фильтр, его описание и каноническую строку параметров
func (h *TaskHandler) DescribeFilters(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	spec := h.codec.Decode(r.URL.Query()).Normalize()
	responseWithJSON(w, http.StatusOK,
		toPayload("filters", spec),
		toPayload("description", filter.Describe(spec)),
		toPayload("query", h.codec.Encode(spec).Encode()))
}

func (h *TaskHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	presets := h.service.ListPresets()
	responseWithJSON(w, http.StatusOK,
		toPayload("presets", dto.FromPresetList(presets)),
		toPayload("count", len(presets)))
}

func (h *TaskHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.PresetRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	spec, err := h.presetSpec(request)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "query"),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверная строка фильтра: "+err.Error())
		return
	}

	preset, err := h.service.SavePreset(request.Name, spec, request.IsDefault)
	if err != nil {
		handleServiceError(w, r, err, "save_preset")
		return
	}

	logger.Info("HTTP_OUT: Пресет создан",
		zap.String("preset_id", preset.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("preset", dto.FromPreset(preset)))
}

// presetSpec - объект filters имеет приоритет над строкой query
func (h *TaskHandler) presetSpec(request dto.PresetRequest) (filter.Spec, error) {
	if request.Filters != nil {
		return request.Filters.Normalize(), nil
	}
	if request.Query == "" {
		return filter.Spec{}, nil
	}
	values, err := url.ParseQuery(request.Query)
	if err != nil {
		return filter.Spec{}, err
	}
	return h.codec.Decode(values), nil
}

func (h *TaskHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	preset, err := h.service.GetPreset(id)
	if err != nil {
		handleServiceError(w, r, err, "get_preset")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("preset", dto.FromPreset(preset)))
}

func (h *TaskHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePreset(id); err != nil {
		handleServiceError(w, r, err, "delete_preset")
		return
	}

	logger.Info("HTTP_OUT: Пресет удалён",
		zap.String("preset_id", id.String()),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent)
}

func (h *TaskHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.service.ApplyPreset(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "apply_preset")
		return
	}

	logger.Info("HTTP_OUT: Пресет применён",
		zap.String("preset_id", id.String()),
		zap.Int("matched", len(res.Tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("result", h.searchResponse(res, 1, 0)),
		toPayload("recorded", res.Recorded != nil))
}

func (h *TaskHandler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	limit, ok := parseIntParam(w, r, paramLimit, search.DisplayLimit, 0)
	if !ok {
		return
	}

	items := h.service.SearchHistory(limit)
	responseWithJSON(w, http.StatusOK,
		toPayload("history", dto.FromHistory(items)),
		toPayload("count", len(items)))
}

func (h *TaskHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	h.service.ClearHistory()
	responseWithJSON(w, http.StatusNoContent)
}
