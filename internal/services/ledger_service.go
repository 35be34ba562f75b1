package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"github.com/onsite-build/engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService is the budget/ledger engine: it appends transactions
// while keeping every budget's in-hand balance consistent, and serves
// the read paths built on top of the ledger.
type LedgerService interface {
	AddTransaction(ctx context.Context, userID uuid.UUID, input *AddTransactionInput) (*AddTransactionResult, error)
	GetProjectBudget(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	ListBudgetTransactions(ctx context.Context, budgetID uuid.UUID) (*BudgetView, error)
	VendorTotal(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, decimal.Decimal, error)
}

type AddTransactionInput struct {
	BudgetID uuid.UUID
	VendorID *uuid.UUID
	Amount   decimal.Decimal
	Type     models.EntryType
	Category string
	Note     string
}

type AddTransactionResult struct {
	Transaction  models.Transaction  `json:"transaction"`
	Budget       models.Budget       `json:"updatedBudget"`
	Notification models.Notification `json:"notification"`
}

// VendorContact is the enrichment attached to each transaction in the
// per-budget listing. Nil when the transaction has no vendor.
type VendorContact struct {
	VendorName string `json:"vendorName"`
	Contact    string `json:"contact"`
}

type TransactionView struct {
	ID        uuid.UUID       `json:"id"`
	BudgetID  uuid.UUID       `json:"budgetId"`
	VendorID  *uuid.UUID      `json:"vendorId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
	CreatedAt string          `json:"createdAt"`
	Vendor    *VendorContact  `json:"vendor"`
}

type BudgetView struct {
	ID           uuid.UUID         `json:"id"`
	ProjectID    uuid.UUID         `json:"projectId"`
	Amount       decimal.Decimal   `json:"amount"`
	InHand       decimal.Decimal   `json:"inHand"`
	Transactions []TransactionView `json:"transactions"`
}

type ledgerService struct {
	db            *gorm.DB
	projectRepo   repository.ProjectRepository
	budgetRepo    repository.BudgetRepository
	txRepo        repository.TransactionRepository
	vendorRepo    repository.VendorRepository
	notifications NotificationService
}

func NewLedgerService(
	db *gorm.DB,
	projectRepo repository.ProjectRepository,
	budgetRepo repository.BudgetRepository,
	txRepo repository.TransactionRepository,
	vendorRepo repository.VendorRepository,
	notifications NotificationService,
) LedgerService {
	return &ledgerService{
		db:            db,
		projectRepo:   projectRepo,
		budgetRepo:    budgetRepo,
		txRepo:        txRepo,
		vendorRepo:    vendorRepo,
		notifications: notifications,
	}
}

var _ LedgerService = (*ledgerService)(nil)

// AddTransaction appends a ledger entry and moves the budget balance in
// one database transaction: balance read, balance write, transaction
// insert and notification insert all commit or roll back together. The
// balance read takes a row lock on Postgres so two concurrent adds on
// the same budget cannot both compute from the same stale balance.
// Push delivery happens after commit and is best-effort.
func (s *ledgerService) AddTransaction(ctx context.Context, userID uuid.UUID, input *AddTransactionInput) (*AddTransactionResult, error) {
	logger.L().Info("add transaction",
		zap.String("budget_id", input.BudgetID.String()),
		zap.String("type", string(input.Type)),
		zap.String("amount", input.Amount.String()),
	)

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, appErr.New(appErr.CodeInvalid, "amount must be positive")
	}
	if input.Type != models.EntryCredit && input.Type != models.EntryDebit {
		return nil, appErr.New(appErr.CodeInvalid, "type must be Credit or Debit")
	}

	var out AddTransactionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var budget models.Budget
		if err := q.First(&budget, "id = ?", input.BudgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.New(appErr.CodeNotFound, "budget not found")
			}
			return appErr.Wrap(err, appErr.CodeInternal, "get budget failed")
		}

		switch input.Type {
		case models.EntryCredit:
			budget.InHand = budget.InHand.Add(input.Amount)
		case models.EntryDebit:
			budget.InHand = budget.InHand.Sub(input.Amount)
		}

		if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).Update("in_hand", budget.InHand).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "update budget balance failed")
		}

		entry := models.Transaction{
			BudgetID: budget.ID,
			VendorID: input.VendorID,
			Amount:   input.Amount,
			Type:     string(input.Type),
			Category: input.Category,
			Note:     input.Note,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create transaction failed")
		}

		notification := models.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("You made a transaction of amount %s (%s).", input.Amount.String(), strings.ToLower(string(input.Type))),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create notification failed")
		}

		out = AddTransactionResult{Transaction: entry, Budget: budget, Notification: notification}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Committed. Push delivery must never fail the operation.
	s.notifications.Push(ctx, userID, "New transaction", out.Notification.Message)

	logger.L().Info("transaction added",
		zap.String("transaction_id", out.Transaction.ID.String()),
		zap.String("budget_id", out.Budget.ID.String()),
		zap.String("in_hand", out.Budget.InHand.String()),
	)
	return &out, nil
}

// GetProjectBudget returns the project with its budgets and nested
// transactions. Hidden projects are served too; financial history stays
// readable after a soft delete.
func (s *ledgerService) GetProjectBudget(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projectRepo.GetWithBudgets(ctx, projectID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ledgerService) ListBudgetTransactions(ctx context.Context, budgetID uuid.UUID) (*BudgetView, error) {
	var b models.Budget
	if err := s.budgetRepo.GetWithTransactions(ctx, budgetID, &b); err != nil {
		return nil, err
	}

	view := &BudgetView{
		ID:           b.ID,
		ProjectID:    b.ProjectID,
		Amount:       b.Amount,
		InHand:       b.InHand,
		Transactions: make([]TransactionView, 0, len(b.Transactions)),
	}
	for _, t := range b.Transactions {
		tv := TransactionView{
			ID:        t.ID,
			BudgetID:  t.BudgetID,
			VendorID:  t.VendorID,
			Amount:    t.Amount,
			Type:      t.Type,
			Category:  t.Category,
			Note:      t.Note,
			CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if t.Vendor != nil {
			tv.Vendor = &VendorContact{VendorName: t.Vendor.VendorName, Contact: t.Vendor.Contact}
		}
		view.Transactions = append(view.Transactions, tv)
	}
	return view, nil
}

// VendorTotal sums a vendor's transaction amounts across every budget
// that references it. The caller names the vendor explicitly.
func (s *ledgerService) VendorTotal(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, decimal.Decimal, error) {
	var v models.Vendor
	if err := s.vendorRepo.GetByID(ctx, vendorID, &v); err != nil {
		return nil, decimal.Zero, err
	}
	total, err := s.txRepo.SumByVendor(ctx, vendorID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &v, total, nil
}
