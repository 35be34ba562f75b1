package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onsite-build/engine/internal/api/types"
	"github.com/onsite-build/engine/internal/api/validators"
	"github.com/onsite-build/engine/internal/services"
)

type WorkersHandler struct {
	workers services.WorkerService
}

func NewWorkersHandler(workers services.WorkerService) *WorkersHandler {
	return &WorkersHandler{workers: workers}
}

func (h *WorkersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.WorkerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	projectID, _ := uuid.Parse(req.ProjectID)

	worker, err := h.workers.CreateWorker(r.Context(), &services.CreateWorkerInput{
		ProjectID: projectID,
		Name:      req.Name,
		Contact:   req.Contact,
		Salary:    req.Salary,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Worker created successfully",
		"worker":  worker,
	})
}

func (h *WorkersHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}
	items, err := h.workers.ListWorkers(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": items})
}

// Attendance upserts a worker's attendance for a calendar day.
func (h *WorkersHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	var req types.AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	workerID, _ := uuid.Parse(req.WorkerID)
	date, _ := time.Parse("2006-01-02", req.Date)
	present := true
	if req.Present != nil {
		present = *req.Present
	}

	att, err := h.workers.RecordAttendance(r.Context(), workerID, date, present)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Attendance recorded",
		"attendance": att,
	})
}
