package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	"github.com/onsite-build/engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// recentTransactionLimit caps the flat detail feed in the trial
// balance. Category and month aggregates are never truncated.
const recentTransactionLimit = 20

const monthKeyLayout = "Jan 2006"

// ReportService produces the consolidated trial balance across every
// project a builder owns.
type ReportService interface {
	TrialBalance(ctx context.Context, builderID uuid.UUID) (*TrialBalance, error)
}

type ReportSummary struct {
	TotalBudget   decimal.Decimal `json:"totalBudget"`
	TotalInHand   decimal.Decimal `json:"totalInHand"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	BudgetBalance decimal.Decimal `json:"budgetBalance"`
}

type CategoryBucket struct {
	Category string          `json:"category"`
	Expense  decimal.Decimal `json:"expense"`
	Income   decimal.Decimal `json:"income"`
}

type MonthBucket struct {
	Month   string          `json:"month"`
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
}

type ReportTransaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
	ProjectID   uuid.UUID       `json:"projectId"`
	ProjectName string          `json:"projectName"`
	BudgetID    uuid.UUID       `json:"budgetId"`
}

type ProjectSummary struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Status string          `json:"status"`
	Budget decimal.Decimal `json:"budget"`
}

type TrialBalance struct {
	Message                string              `json:"message,omitempty"`
	Summary                ReportSummary       `json:"summary"`
	TransactionsByCategory []CategoryBucket    `json:"transactionsByCategory"`
	TransactionsByMonth    []MonthBucket       `json:"transactionsByMonth"`
	Transactions           []ReportTransaction `json:"transactions"`
	Projects               []ProjectSummary    `json:"projects"`
}

type reportService struct {
	projectRepo repository.ProjectRepository
	budgetRepo  repository.BudgetRepository
}

func NewReportService(projectRepo repository.ProjectRepository, budgetRepo repository.BudgetRepository) ReportService {
	return &reportService{projectRepo: projectRepo, budgetRepo: budgetRepo}
}

var _ ReportService = (*reportService)(nil)

func (s *reportService) TrialBalance(ctx context.Context, builderID uuid.UUID) (*TrialBalance, error) {
	logger.L().Info("trial balance", zap.String("builder_id", builderID.String()))

	projects, err := s.projectRepo.ListByBuilderWithBudgets(ctx, builderID)
	if err != nil {
		return nil, err
	}

	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	var budgets []models.Budget
	if len(projectIDs) > 0 {
		budgets, err = s.budgetRepo.ListByProjects(ctx, projectIDs)
		if err != nil {
			return nil, err
		}
	}

	return buildTrialBalance(projects, budgets), nil
}

// buildTrialBalance folds loaded budgets and transactions into the
// report shape. Pure: no I/O, deterministic for a fixed input.
func buildTrialBalance(projects []models.Project, budgets []models.Budget) *TrialBalance {
	if len(budgets) == 0 {
		return &TrialBalance{
			Message:                "No budgets found for the builder's projects.",
			Summary:                ReportSummary{},
			TransactionsByCategory: []CategoryBucket{},
			TransactionsByMonth:    []MonthBucket{},
			Transactions:           []ReportTransaction{},
			Projects:               zeroProjectSummaries(projects),
		}
	}

	var summary ReportSummary

	categoryIndex := map[string]int{}
	categories := []CategoryBucket{}
	monthIndex := map[string]int{}
	months := []MonthBucket{}
	monthTimes := map[string]time.Time{}
	feed := []ReportTransaction{}

	for _, budget := range budgets {
		summary.TotalBudget = summary.TotalBudget.Add(budget.Amount)
		summary.TotalInHand = summary.TotalInHand.Add(budget.InHand)

		projectName := ""
		if budget.Project != nil {
			projectName = budget.Project.ProjectName
		}

		for _, t := range budget.Transactions {
			entryType := t.Type
			if entryType == "" {
				entryType = string(models.EntryDebit)
			}
			category := t.Category
			if category == "" {
				category = "Uncategorized"
			}
			isCredit := strings.EqualFold(entryType, string(models.EntryCredit))

			feed = append(feed, ReportTransaction{
				ID:          t.ID,
				Amount:      t.Amount,
				Type:        entryType,
				Category:    category,
				Note:        t.Note,
				CreatedAt:   t.CreatedAt,
				ProjectID:   budget.ProjectID,
				ProjectName: projectName,
				BudgetID:    budget.ID,
			})

			ci, ok := categoryIndex[category]
			if !ok {
				ci = len(categories)
				categoryIndex[category] = ci
				categories = append(categories, CategoryBucket{Category: category})
			}

			monthKey := t.CreatedAt.Format(monthKeyLayout)
			mi, ok := monthIndex[monthKey]
			if !ok {
				mi = len(months)
				monthIndex[monthKey] = mi
				months = append(months, MonthBucket{Month: monthKey})
				monthTimes[monthKey] = time.Date(t.CreatedAt.Year(), t.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
			}

			if isCredit {
				summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
				categories[ci].Income = categories[ci].Income.Add(t.Amount)
				months[mi].Income = months[mi].Income.Add(t.Amount)
			} else {
				summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
				categories[ci].Expense = categories[ci].Expense.Add(t.Amount)
				months[mi].Expense = months[mi].Expense.Add(t.Amount)
			}
		}
	}

	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)
	summary.BudgetBalance = summary.TotalBudget.Sub(summary.TotalExpenses)

	// Most recent first, then cap the detail feed.
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].CreatedAt.After(feed[j].CreatedAt) })
	if len(feed) > recentTransactionLimit {
		feed = feed[:recentTransactionLimit]
	}

	// Chronological: year first, then calendar month.
	sort.SliceStable(months, func(i, j int) bool {
		return monthTimes[months[i].Month].Before(monthTimes[months[j].Month])
	})

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		total := decimal.Zero
		for _, b := range p.Budgets {
			total = total.Add(b.Amount)
		}
		summaries = append(summaries, ProjectSummary{ID: p.ID, Name: p.ProjectName, Status: p.Status, Budget: total})
	}

	return &TrialBalance{
		Summary:                summary,
		TransactionsByCategory: categories,
		TransactionsByMonth:    months,
		Transactions:           feed,
		Projects:               summaries,
	}
}

func zeroProjectSummaries(projects []models.Project) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectSummary{ID: p.ID, Name: p.ProjectName, Status: p.Status, Budget: decimal.Zero})
	}
	return out
}
