package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/onsite-build/engine/internal/api/types"
	"github.com/onsite-build/engine/internal/api/validators"
	"github.com/onsite-build/engine/internal/services"
)

type PaymentsHandler struct {
	payments services.PaymentService
}

func NewPaymentsHandler(payments services.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

func (h *PaymentsHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req types.InitializePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	workerID, _ := uuid.Parse(req.WorkerID)
	projectID, _ := uuid.Parse(req.ProjectID)

	out, err := h.payments.InitializePayment(r.Context(), &services.InitializePaymentInput{
		WorkerID:    workerID,
		ProjectID:   projectID,
		TotalSalary: req.TotalSalary,
		Month:       req.Month,
		Year:        req.Year,
		ReturnURL:   req.ReturnURL,
		WebsiteURL:  req.WebsiteURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Payment initialized",
		"payment":    out.Payment,
		"paymentUrl": out.Gateway.PaymentURL,
		"pidx":       out.Gateway.Pidx,
	})
}

// Verify handles the gateway redirect. Parameters arrive in the query
// string because the user's browser is the caller.
func (h *PaymentsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := services.VerifyPaymentInput{
		Pidx:            q.Get("pidx"),
		TransactionRef:  q.Get("transaction_id"),
		PurchaseOrderID: q.Get("purchase_order_id"),
		Status:          q.Get("status"),
	}
	if input.Pidx == "" || input.PurchaseOrderID == "" {
		writeErrorStr(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	payment, err := h.payments.VerifyPayment(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Payment verified successfully",
		"payment": payment,
	})
}
