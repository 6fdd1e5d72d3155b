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

// ProjectHandler обрабатывает эндпоинты проектов и их участников
type ProjectHandler struct {
	projectService *service.ProjectService
	accessService  *service.AccessService
}

// NewProjectHandler создает новый ProjectHandler
func NewProjectHandler(projectService *service.ProjectService, accessService *service.AccessService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		accessService:  accessService,
	}
}

// ListProjects обрабатывает GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}

	RespondWithJSON(w, r, http.StatusOK, projects)
}

// GetProject обрабатывает GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, project)
}

// CreateProject обрабатывает POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req domain.Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	project, err := h.projectService.Create(r.Context(), actor, &req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, project)
}

// UpdateStatusRequest представляет тело запроса для смены статуса проекта
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateProjectStatus обрабатывает POST /projects/{id}/status
func (h *ProjectHandler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Status == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "status is required")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.projectService.UpdateStatus(r.Context(), actor, projectID, req.Status); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPermissions обрабатывает GET /projects/{id}/permissions —
// UI запрашивает права, чтобы скрыть недоступные действия.
// Сервер все равно перепроверяет права на каждой операции.
func (h *ProjectHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	caps := h.accessService.ProjectCapabilities(r.Context(), projectID, actor.TelegramID, actor.Role)

	RespondWithJSON(w, r, http.StatusOK, caps)
}

// AddMember обрабатывает POST /projects/{id}/members
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	var req domain.ProjectMember
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Username == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "username is required")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.projectService.AddMember(r.Context(), actor, projectID, req); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// UpdateMemberRequest представляет тело запроса для смены роли участника
type UpdateMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UpdateMemberRole обрабатывает PUT /projects/{id}/members
func (h *ProjectHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Username == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "username is required")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.projectService.UpdateMemberRole(r.Context(), actor, projectID, req.Username, req.Role); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember обрабатывает DELETE /projects/{id}/members?username=...
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "username query parameter is required")
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.projectService.RemoveMember(r.Context(), actor, projectID, username); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectIDFromURL(w http.ResponseWriter, r *http.Request) (int, bool) {
	projectID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return 0, false
	}
	return projectID, true
}
