package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func postTransaction(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewBudgetsHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/budget/add-transaction", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.AddTransaction(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAddTransactionMissingFields(t *testing.T) {
	cases := []string{
		`{}`,
		`{"budgetId":"6f1c0a9e-5f5e-4a5e-9b7e-000000000001","amount":200}`,
		`{"budgetId":"6f1c0a9e-5f5e-4a5e-9b7e-000000000001","type":"Debit"}`,
		`{"amount":200,"type":"Debit"}`,
	}
	for _, c := range cases {
		rec := postTransaction(t, c)
		require.Equal(t, http.StatusBadRequest, rec.Code, c)
		require.Equal(t, "Missing required fields", decodeError(t, rec), c)
	}
}

func TestAddTransactionRejectsBadPayloads(t *testing.T) {
	rec := postTransaction(t, `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid json", decodeError(t, rec))

	rec = postTransaction(t, `{"budgetId":"not-a-uuid","amount":200,"type":"Debit"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid budget id", decodeError(t, rec))

	rec = postTransaction(t, `{"budgetId":"6f1c0a9e-5f5e-4a5e-9b7e-000000000001","amount":200,"type":"transfer"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeError(t, rec), "unknown transaction type")
}

func TestGetProjectBudgetRejectsBadID(t *testing.T) {
	h := NewBudgetsHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/project/abc/budget", nil)
	rec := httptest.NewRecorder()
	h.GetProjectBudget(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid project id", decodeError(t, rec))
}
