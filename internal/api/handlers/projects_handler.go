package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onsite-build/engine/internal/api/middleware"
	"github.com/onsite-build/engine/internal/api/types"
	"github.com/onsite-build/engine/internal/api/validators"
	"github.com/onsite-build/engine/internal/services"
)

type ProjectsHandler struct {
	projects services.ProjectService
}

func NewProjectsHandler(projects services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}

	input := services.CreateProjectInput{
		ProjectName:  req.ProjectName,
		OwnerName:    req.OwnerName,
		BudgetAmount: req.Budget,
		Location:     req.Location,
	}
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			input.StartDate = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			input.EndDate = &t
		}
	}

	out, err := h.projects.CreateProject(r.Context(), builderID, &input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Project created successfully",
		"newProject": out.Project,
		"newBudget":  out.Budget,
	})
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.projects.ListProjects(r.Context(), builderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": items})
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.projects.GetProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": p})
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.projects.DeleteProject(r.Context(), projectID, builderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

func (h *ProjectsHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, _ := uuid.Parse(req.ProjectID)

	p, err := h.projects.ShareProject(r.Context(), projectID, builderID, req.ClientUsername)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project shared successfully",
		"project": p,
	})
}

// currentUser pulls the authenticated user id from the request context.
// Writes a 401 and returns false when it is missing or malformed.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}
