package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/khalti"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"github.com/onsite-build/engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PaymentService runs the salary payout round-trip: initialize a
// gateway payment, then on the gateway's callback verify it, complete
// the payment row, mark the month's attendance paid and record the
// matching debit in the ledger.
type PaymentService interface {
	InitializePayment(ctx context.Context, input *InitializePaymentInput) (*InitializePaymentResult, error)
	VerifyPayment(ctx context.Context, input *VerifyPaymentInput) (*models.Payment, error)
}

type InitializePaymentInput struct {
	WorkerID    uuid.UUID
	ProjectID   uuid.UUID
	TotalSalary decimal.Decimal
	Month       string
	Year        int
	ReturnURL   string
	WebsiteURL  string
}

type InitializePaymentResult struct {
	Payment models.Payment           `json:"payment"`
	Gateway *khalti.InitiateResponse `json:"gateway"`
}

// VerifyPaymentInput carries the gateway's redirect query. The
// purchase order id is the payment row's id.
type VerifyPaymentInput struct {
	Pidx            string
	TransactionRef  string
	PurchaseOrderID string
	Status          string
}

type paymentService struct {
	paymentRepo    repository.PaymentRepository
	workerRepo     repository.WorkerRepository
	projectRepo    repository.ProjectRepository
	budgetRepo     repository.BudgetRepository
	attendanceRepo repository.AttendanceRepository
	gateway        khalti.Client
	ledger         LedgerService
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	workerRepo repository.WorkerRepository,
	projectRepo repository.ProjectRepository,
	budgetRepo repository.BudgetRepository,
	attendanceRepo repository.AttendanceRepository,
	gateway khalti.Client,
	ledger LedgerService,
) PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		workerRepo:     workerRepo,
		projectRepo:    projectRepo,
		budgetRepo:     budgetRepo,
		attendanceRepo: attendanceRepo,
		gateway:        gateway,
		ledger:         ledger,
	}
}

var _ PaymentService = (*paymentService)(nil)

func (s *paymentService) InitializePayment(ctx context.Context, input *InitializePaymentInput) (*InitializePaymentResult, error) {
	logger.L().Info("initialize payment",
		zap.String("worker_id", input.WorkerID.String()),
		zap.String("project_id", input.ProjectID.String()),
	)

	if input.TotalSalary.LessThanOrEqual(decimal.Zero) {
		return nil, appErr.New(appErr.CodeInvalid, "total salary must be positive")
	}

	var worker models.Worker
	if err := s.workerRepo.GetByID(ctx, input.WorkerID, &worker); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "worker or project not found")
		}
		return nil, err
	}
	var project models.Project
	if err := s.projectRepo.GetByID(ctx, input.ProjectID, &project); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "worker or project not found")
		}
		return nil, err
	}

	payment := models.Payment{
		WorkerID:    input.WorkerID,
		ProjectID:   input.ProjectID,
		TotalSalary: input.TotalSalary,
		Month:       input.Month,
		Year:        input.Year,
		Status:      models.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		return nil, err
	}

	// Khalti amounts are in paisa.
	gw, err := s.gateway.Initiate(ctx, &khalti.InitiateRequest{
		ReturnURL:         input.ReturnURL,
		WebsiteURL:        input.WebsiteURL,
		Amount:            input.TotalSalary.Mul(decimal.NewFromInt(100)).IntPart(),
		PurchaseOrderID:   payment.ID.String(),
		PurchaseOrderName: fmt.Sprintf("Salary Payment - %s %d", input.Month, input.Year),
	})
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "payment initialization failed")
	}

	payment.Pidx = gw.Pidx
	if raw, merr := json.Marshal(gw); merr == nil {
		payment.GatewayPayload = datatypes.JSON(raw)
	}
	if err := s.paymentRepo.Update(ctx, &payment); err != nil {
		return nil, err
	}

	return &InitializePaymentResult{Payment: payment, Gateway: gw}, nil
}

// VerifyPayment trusts nothing from the redirect: the gateway lookup
// must independently report Completed before any state changes.
func (s *paymentService) VerifyPayment(ctx context.Context, input *VerifyPaymentInput) (*models.Payment, error) {
	logger.L().Info("verify payment", zap.String("pidx", input.Pidx), zap.String("order", input.PurchaseOrderID))

	if input.Status != khalti.StatusCompleted {
		return nil, appErr.New(appErr.CodeInvalid, "payment not completed")
	}

	lookup, err := s.gateway.Lookup(ctx, input.Pidx)
	if err != nil || lookup == nil || lookup.Status != khalti.StatusCompleted {
		return nil, appErr.New(appErr.CodeInvalid, "payment verification failed")
	}

	paymentID, err := uuid.Parse(input.PurchaseOrderID)
	if err != nil {
		return nil, appErr.New(appErr.CodeInvalid, "invalid purchase order id")
	}

	var payment models.Payment
	if err := s.paymentRepo.GetByID(ctx, paymentID, &payment); err != nil {
		return nil, err
	}

	changed, err := s.paymentRepo.CompletePending(ctx, payment.WorkerID, payment.ProjectID, payment.Month, payment.Year, input.TransactionRef, input.Pidx)
	if err != nil {
		return nil, err
	}
	if changed == 0 {
		return nil, appErr.New(appErr.CodeNotFound, "no matching pending payment found")
	}

	// Mark the month's worked days paid.
	if from, to, perr := monthRange(payment.Month, payment.Year); perr == nil {
		if _, aerr := s.attendanceRepo.MarkPaidForPeriod(ctx, payment.WorkerID, from, to); aerr != nil {
			logger.L().Error("mark attendance paid failed", zap.Error(aerr), zap.String("payment_id", payment.ID.String()))
		}
	} else {
		logger.L().Warn("unparseable payment month, attendance untouched",
			zap.String("month", payment.Month), zap.Int("year", payment.Year))
	}

	// Record the payout in the ledger so the budget balance reflects it.
	var project models.Project
	if err := s.projectRepo.GetByID(ctx, payment.ProjectID, &project); err != nil {
		return nil, err
	}
	var budget models.Budget
	if err := s.budgetRepo.GetFirstByProject(ctx, payment.ProjectID, &budget); err != nil {
		return nil, err
	}
	if _, err := s.ledger.AddTransaction(ctx, project.BuilderID, &AddTransactionInput{
		BudgetID: budget.ID,
		Amount:   payment.TotalSalary,
		Type:     models.EntryDebit,
		Category: "Salary",
		Note:     fmt.Sprintf("Salary payment for %s %d", payment.Month, payment.Year),
	}); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.GetByID(ctx, paymentID, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// monthRange resolves a month name (either "March" or "Mar") and a
// year to the [first of month, first of next month) window.
func monthRange(month string, year int) (time.Time, time.Time, error) {
	t, err := time.Parse("January", month)
	if err != nil {
		t, err = time.Parse("Jan", month)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	from := time.Date(year, t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
