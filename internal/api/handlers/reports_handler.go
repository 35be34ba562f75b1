package handlers

import (
	"net/http"

	"github.com/onsite-build/engine/internal/services"
)

type ReportsHandler struct {
	reports services.ReportService
}

func NewReportsHandler(reports services.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// TrialBalance aggregates every project the authenticated builder
// owns, hidden ones included.
func (h *ReportsHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}

	tb, err := h.reports.TrialBalance(r.Context(), builderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tb)
}
