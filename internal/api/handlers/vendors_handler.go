package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onsite-build/engine/internal/api/types"
	"github.com/onsite-build/engine/internal/api/validators"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	"github.com/onsite-build/engine/internal/services"
)

type VendorsHandler struct {
	repo   repository.VendorRepository
	ledger services.LedgerService
}

func NewVendorsHandler(repo repository.VendorRepository, ledger services.LedgerService) *VendorsHandler {
	return &VendorsHandler{repo: repo, ledger: ledger}
}

func (h *VendorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.VendorCreateRequest
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

	v := models.Vendor{
		VendorName:  req.VendorName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Contact:     req.Contact,
		Address:     req.Address,
		Profile:     req.Profile,
		BuilderID:   builderID,
	}
	if err := h.repo.Create(r.Context(), &v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Vendor created successfully",
		"vendor":  v,
	})
}

func (h *VendorsHandler) List(w http.ResponseWriter, r *http.Request) {
	builderID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.repo.ListByBuilder(r.Context(), builderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": items})
}

// Total sums the vendor's ledger entries across every budget that
// references it.
func (h *VendorsHandler) Total(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	vendor, total, err := h.ledger.VendorTotal(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vendor":      vendor,
		"totalAmount": total,
	})
}
