package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskSearch/internal/filter"
	"taskSearch/internal/handlers/dto"
	"taskSearch/internal/logger"
	"taskSearch/internal/models/task"

	"go.uber.org/zap"
)

var errEmptyTitle = errors.New("название не может быть пустым")

type TaskHandler struct {
	service Service
	codec   *filter.Codec
	loc     *time.Location
}

// NewTaskHandler - loc задаёт часовой пояс календарных дат в параметрах запроса
func NewTaskHandler(service Service, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{
		service: service,
		codec:   filter.NewCodec(loc),
		loc:     loc,
	}
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	err := h.service.HealthCheck(r.Context())
	if err != nil {
		logger.Warn("HTTP: Сервис недоступен", zap.Error(err))
	}
	healthCheck(w, err)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if strings.TrimSpace(request.Title) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	options := []task.TaskOption{
		task.WithDescription(request.Description),
		task.WithStatus(task.Status(request.Status)),
		task.WithPriority(task.Priority(request.Priority)),
	}
	if request.Tags != nil {
		options = append(options, task.WithTags(request.Tags))
	}
	if request.DueDate != "" {
		due, err := dto.ParseDueDate(request.DueDate, h.loc)
		if err != nil {
			logger.Warn("HTTP: Ошибка валидации",
				zap.String("field", "due_date"),
				zap.String("error", "wrong_value"),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		options = append(options, task.WithDueDate(due))
	}

	created, err := h.service.CreateTask(r.Context(), request.Title, options...)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, h.service.Now())))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetTaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found, h.service.Now())))
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	options, err := h.updateOptions(request)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), id, options...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Int("version", updated.Version),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, h.service.Now())))
}

func (h *TaskHandler) updateOptions(request dto.UpdateTaskRequest) ([]task.TaskOption, error) {
	var options []task.TaskOption
	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return nil, errEmptyTitle
		}
		options = append(options, task.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.Status != nil {
		options = append(options, task.WithStatus(task.Status(*request.Status)))
	}
	if request.Priority != nil {
		options = append(options, task.WithPriority(task.Priority(*request.Priority)))
	}
	if request.Tags != nil {
		options = append(options, task.WithTags(*request.Tags))
	}
	if request.DueDate != nil {
		if *request.DueDate == "" {
			options = append(options, task.WithoutDueDate())
		} else {
			due, err := dto.ParseDueDate(*request.DueDate, h.loc)
			if err != nil {
				return nil, err
			}
			options = append(options, task.WithDueDate(due))
		}
	}
	return options, nil
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent)
}
