package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Register навешивает маршруты API на роутер
func (h *TaskHandler) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.SearchTasks) // GET /tasks?q=...&status=...
		r.Post("/", h.CreateTask) // POST /tasks

		r.Get("/stats", h.Stats)          // GET /tasks/stats
		r.Get("/overdue", h.OverdueTasks) // GET /tasks/overdue

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)   // GET /tasks/{id}
			r.Put("/", h.UpdateTask)    // PUT /tasks/{id}
			r.Delete("/", h.DeleteTask) // DELETE /tasks/{id}
		})
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/describe", h.DescribeFilters) // GET /search/describe?...

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/", h.CreatePreset)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPreset)
				r.Delete("/", h.DeletePreset)
				r.Get("/apply", h.ApplyPreset) // GET /search/presets/{id}/apply
			})
		})

		r.Get("/history", h.SearchHistory)   // GET /search/history?limit=5
		r.Delete("/history", h.ClearHistory) // DELETE /search/history
	})

	r.Get("/health", h.HealthCheck)
}
