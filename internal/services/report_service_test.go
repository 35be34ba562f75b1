package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/internal/models"
)

func tx(amount, entryType, category string, createdAt time.Time) models.Transaction {
	return models.Transaction{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Type:      entryType,
		Category:  category,
		CreatedAt: createdAt,
	}
}

func TestBuildTrialBalanceTotals(t *testing.T) {
	project := models.Project{ID: uuid.New(), ProjectName: "Hilltop Villa", Status: models.StatusOnGoing}
	jan := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

	budget := models.Budget{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Amount:    decimal.RequireFromString("10000"),
		InHand:    decimal.RequireFromString("9300"),
		Project:   &project,
		Transactions: []models.Transaction{
			tx("500", "Debit", "Materials", jan),
			tx("200", "Debit", "Labour", jan.Add(time.Hour)),
			tx("1000", "credit", "Client Advance", jan.Add(2*time.Hour)),
		},
	}
	project.Budgets = []models.Budget{budget}

	tb := buildTrialBalance([]models.Project{project}, []models.Budget{budget})

	require.Empty(t, tb.Message)
	requireDecimalEqual(t, "10000", tb.Summary.TotalBudget)
	requireDecimalEqual(t, "9300", tb.Summary.TotalInHand)
	requireDecimalEqual(t, "700", tb.Summary.TotalExpenses)
	requireDecimalEqual(t, "1000", tb.Summary.TotalIncome)
	requireDecimalEqual(t, "300", tb.Summary.NetBalance)
	requireDecimalEqual(t, "9300", tb.Summary.BudgetBalance)

	require.Len(t, tb.TransactionsByCategory, 3)
	require.Equal(t, "Materials", tb.TransactionsByCategory[0].Category)
	requireDecimalEqual(t, "500", tb.TransactionsByCategory[0].Expense)
	requireDecimalEqual(t, "1000", tb.TransactionsByCategory[2].Income)

	require.Len(t, tb.Projects, 1)
	require.Equal(t, "Hilltop Villa", tb.Projects[0].Name)
	requireDecimalEqual(t, "10000", tb.Projects[0].Budget)
}

func TestBuildTrialBalanceMonthOrderAndDefaults(t *testing.T) {
	project := models.Project{ID: uuid.New(), ProjectName: "Annex"}
	dec24 := time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)
	jan25 := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

	budget := models.Budget{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Amount:    decimal.RequireFromString("1000"),
		InHand:    decimal.RequireFromString("1000"),
		Transactions: []models.Transaction{
			// newest month first in input; output must be chronological
			tx("50", "Debit", "", jan25),
			tx("30", "", "Misc", dec24),
		},
	}

	tb := buildTrialBalance([]models.Project{project}, []models.Budget{budget})

	require.Len(t, tb.TransactionsByMonth, 2)
	require.Equal(t, "Dec 2024", tb.TransactionsByMonth[0].Month)
	require.Equal(t, "Jan 2025", tb.TransactionsByMonth[1].Month)

	// empty type counts as a debit, empty category falls back
	requireDecimalEqual(t, "30", tb.TransactionsByMonth[0].Expense)
	require.Equal(t, "Debit", tb.Transactions[1].Type)
	require.Equal(t, "Misc", tb.Transactions[1].Category)
	require.Equal(t, "Uncategorized", tb.Transactions[0].Category)

	// feed is newest first
	requireDecimalEqual(t, "50", tb.Transactions[0].Amount)
}

func TestBuildTrialBalanceTruncatesFeed(t *testing.T) {
	project := models.Project{ID: uuid.New(), ProjectName: "Tower"}
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	var entries []models.Transaction
	for i := 0; i < recentTransactionLimit+5; i++ {
		entries = append(entries, tx(fmt.Sprintf("%d", i+1), "Debit", "Materials", base.Add(time.Duration(i)*time.Hour)))
	}
	budget := models.Budget{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		Amount:       decimal.RequireFromString("100000"),
		InHand:       decimal.RequireFromString("100000"),
		Transactions: entries,
	}

	tb := buildTrialBalance([]models.Project{project}, []models.Budget{budget})

	require.Len(t, tb.Transactions, recentTransactionLimit)
	// newest entry leads the feed
	requireDecimalEqual(t, "25", tb.Transactions[0].Amount)
	// aggregates keep every entry: 1+2+...+25
	requireDecimalEqual(t, "325", tb.Summary.TotalExpenses)
	requireDecimalEqual(t, "325", tb.TransactionsByCategory[0].Expense)
}

func TestBuildTrialBalanceNoBudgets(t *testing.T) {
	projects := []models.Project{
		{ID: uuid.New(), ProjectName: "Empty Lot", Status: models.StatusPending},
	}

	tb := buildTrialBalance(projects, nil)

	require.Equal(t, "No budgets found for the builder's projects.", tb.Message)
	requireDecimalEqual(t, "0", tb.Summary.TotalBudget)
	require.Empty(t, tb.TransactionsByCategory)
	require.Empty(t, tb.TransactionsByMonth)
	require.Empty(t, tb.Transactions)
	require.Len(t, tb.Projects, 1)
	requireDecimalEqual(t, "0", tb.Projects[0].Budget)
}
