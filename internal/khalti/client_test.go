package khalti

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitiateSendsKeyAuthAndPaisaAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/epayment/initiate/", r.URL.Path)
		require.Equal(t, "Key test-secret", r.Header.Get("Authorization"))

		var req InitiateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.EqualValues(t, 150000, req.Amount)
		require.Equal(t, "order-1", req.PurchaseOrderID)

		json.NewEncoder(w).Encode(InitiateResponse{Pidx: "px-1", PaymentURL: "https://pay.test/px-1"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-secret")
	out, err := c.Initiate(context.Background(), &InitiateRequest{
		ReturnURL:         "https://app.test/verify",
		WebsiteURL:        "https://app.test",
		Amount:            150000,
		PurchaseOrderID:   "order-1",
		PurchaseOrderName: "Salary Payment - March 2025",
	})
	require.NoError(t, err)
	require.Equal(t, "px-1", out.Pidx)
	require.Equal(t, "https://pay.test/px-1", out.PaymentURL)
}

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	c := NewHTTPClient("http://unused", "k")
	_, err := c.Initiate(context.Background(), &InitiateRequest{Amount: 0})
	require.Error(t, err)
}

func TestLookupReportsGatewayStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/epayment/lookup/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "px-1", req["pidx"])

		json.NewEncoder(w).Encode(LookupResponse{Pidx: "px-1", Status: StatusCompleted, TransactionID: "txn-1"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-secret")
	out, err := c.Lookup(context.Background(), "px-1")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, out.Status)
	require.Equal(t, "txn-1", out.TransactionID)
}

func TestLookupSurfacesGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Not found"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-secret")
	_, err := c.Lookup(context.Background(), "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}
