package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onsite-build/engine/internal/api/types"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/services"
	appErr "github.com/onsite-build/engine/pkg/errors"
)

// BudgetsHandler fronts the ledger engine: transaction append, the
// per-project budget read and the per-budget transaction listing.
type BudgetsHandler struct {
	ledger services.LedgerService
}

func NewBudgetsHandler(ledger services.LedgerService) *BudgetsHandler {
	return &BudgetsHandler{ledger: ledger}
}

func (h *BudgetsHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req types.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.BudgetID == "" || req.Type == "" || req.Amount == nil {
		writeErrorStr(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	entryType, err := models.ParseEntryType(req.Type)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	var vendorID *uuid.UUID
	if req.VendorID != "" {
		vid, err := uuid.Parse(req.VendorID)
		if err != nil {
			writeErrorStr(w, http.StatusBadRequest, "invalid vendor id")
			return
		}
		vendorID = &vid
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	out, err := h.ledger.AddTransaction(r.Context(), userID, &services.AddTransactionInput{
		BudgetID: budgetID,
		VendorID: vendorID,
		Amount:   *req.Amount,
		Type:     entryType,
		Category: req.Category,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Transaction added successfully",
		"transaction":   out.Transaction,
		"updatedBudget": out.Budget,
		"notification":  out.Notification,
	})
}

// GetProjectBudget is a public read: shared clients follow this link
// without a session.
func (h *BudgetsHandler) GetProjectBudget(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.ledger.GetProjectBudget(r.Context(), projectID)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": p})
}

func (h *BudgetsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BudgetID string `json:"budgetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	view, err := h.ledger.ListBudgetTransactions(r.Context(), budgetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Transactions fetched successfully",
		"transactions": view.Transactions,
	})
}
