package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/middleware"
	"github.com/aidar/taskhub/internal/service"
)

// TaskHandler обрабатывает эндпоинты задач
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler создает новый TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks обрабатывает GET /tasks?id_project=...
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(r.URL.Query().Get("id_project"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "id_project query parameter is required")
		return
	}

	tasks, err := h.taskService.ListByProject(r.Context(), projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CreateTask обрабатывает POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req domain.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.ProjectID == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "id_project is required")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	task, err := h.taskService.Create(r.Context(), actor, &req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, task)
}

// GetTask обрабатывает GET /tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), taskID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask обрабатывает PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	var req domain.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.ID = taskID

	actor := middleware.ActorFromContext(r.Context())
	task, err := h.taskService.Update(r.Context(), actor, &req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask обрабатывает DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.taskService.Delete(r.Context(), actor, taskID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitCompletionRequest представляет тело запроса отправки на проверку
type SubmitCompletionRequest struct {
	Message string `json:"message"`
}

// SubmitCompletion обрабатывает POST /tasks/{id}/complete
func (h *TaskHandler) SubmitCompletion(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	var req SubmitCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	task, err := h.taskService.SubmitCompletion(r.Context(), actor, taskID, req.Message)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// ReviewRequest представляет тело запроса с вердиктом проверяющего
type ReviewRequest struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// Review обрабатывает POST /tasks/{id}/review
func (h *TaskHandler) Review(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	task, err := h.taskService.Review(r.Context(), actor, taskID, req.Approved, req.Message)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

func taskIDFromURL(w http.ResponseWriter, r *http.Request) (int, bool) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid task id")
		return 0, false
	}
	return taskID, true
}
