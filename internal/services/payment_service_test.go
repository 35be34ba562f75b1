package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/internal/khalti"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Initiate(ctx context.Context, req *khalti.InitiateRequest) (*khalti.InitiateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*khalti.InitiateResponse), args.Error(1)
}

func (m *mockGateway) Lookup(ctx context.Context, pidx string) (*khalti.LookupResponse, error) {
	args := m.Called(ctx, pidx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*khalti.LookupResponse), args.Error(1)
}

type paymentFixture struct {
	*ledgerFixture
	gateway *mockGateway
	svc     PaymentService
	worker  models.Worker
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	lf := newLedgerFixture(t, "20000")

	worker := models.Worker{ProjectID: lf.project.ID, Name: "Ram", Contact: "9811111111", Salary: decimal.RequireFromString("1500")}
	require.NoError(t, lf.db.Create(&worker).Error)

	gateway := &mockGateway{}
	svc := NewPaymentService(
		repository.NewPaymentRepository(lf.db),
		repository.NewWorkerRepository(lf.db),
		repository.NewProjectRepository(lf.db),
		repository.NewBudgetRepository(lf.db),
		repository.NewAttendanceRepository(lf.db),
		gateway,
		lf.svc,
	)
	return &paymentFixture{ledgerFixture: lf, gateway: gateway, svc: svc, worker: worker}
}

func TestInitializePaymentCreatesPendingAndCallsGateway(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.gateway.On("Initiate", mock.Anything, mock.MatchedBy(func(req *khalti.InitiateRequest) bool {
		// 1500 rupees in paisa
		return req.Amount == 150000 && req.ReturnURL == "https://app.example.com/verify"
	})).Return(&khalti.InitiateResponse{Pidx: "px-1", PaymentURL: "https://khalti.test/pay/px-1"}, nil)

	out, err := f.svc.InitializePayment(ctx, &InitializePaymentInput{
		WorkerID:    f.worker.ID,
		ProjectID:   f.project.ID,
		TotalSalary: decimal.RequireFromString("1500"),
		Month:       "March",
		Year:        2025,
		ReturnURL:   "https://app.example.com/verify",
		WebsiteURL:  "https://app.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, out.Payment.Status)
	require.Equal(t, "px-1", out.Payment.Pidx)
	require.Equal(t, "https://khalti.test/pay/px-1", out.Gateway.PaymentURL)
	f.gateway.AssertExpectations(t)
}

func TestInitializePaymentUnknownWorker(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.InitializePayment(context.Background(), &InitializePaymentInput{
		WorkerID:    f.project.ID, // not a worker id
		ProjectID:   f.project.ID,
		TotalSalary: decimal.RequireFromString("1500"),
		Month:       "March",
		Year:        2025,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	f.gateway.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
}

func TestVerifyPaymentCompletesAndDebitsLedger(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	// two unpaid present days in March, one in April
	for _, d := range []time.Time{
		time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, f.db.Create(&models.Attendance{WorkerID: f.worker.ID, Date: d, Present: true, Paid: false}).Error)
	}

	f.gateway.On("Initiate", mock.Anything, mock.Anything).
		Return(&khalti.InitiateResponse{Pidx: "px-2", PaymentURL: "https://khalti.test/pay/px-2"}, nil)
	f.gateway.On("Lookup", mock.Anything, "px-2").
		Return(&khalti.LookupResponse{Pidx: "px-2", Status: khalti.StatusCompleted, TransactionID: "txn-9"}, nil)

	init, err := f.svc.InitializePayment(ctx, &InitializePaymentInput{
		WorkerID:    f.worker.ID,
		ProjectID:   f.project.ID,
		TotalSalary: decimal.RequireFromString("1500"),
		Month:       "March",
		Year:        2025,
		ReturnURL:   "https://app.example.com/verify",
		WebsiteURL:  "https://app.example.com",
	})
	require.NoError(t, err)

	payment, err := f.svc.VerifyPayment(ctx, &VerifyPaymentInput{
		Pidx:            "px-2",
		TransactionRef:  "txn-9",
		PurchaseOrderID: init.Payment.ID.String(),
		Status:          khalti.StatusCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentCompleted, payment.Status)
	require.Equal(t, "txn-9", payment.TransactionRef)
	require.NotNil(t, payment.PaidAt)

	// March attendance flipped to paid, April untouched
	var paid int64
	require.NoError(t, f.db.Model(&models.Attendance{}).Where("worker_id = ? AND paid = ?", f.worker.ID, true).Count(&paid).Error)
	require.EqualValues(t, 2, paid)

	// the payout landed in the ledger as a Salary debit
	var budget models.Budget
	require.NoError(t, f.db.First(&budget, "id = ?", f.budget.ID).Error)
	requireDecimalEqual(t, "18500", budget.InHand)

	var entry models.Transaction
	require.NoError(t, f.db.First(&entry, "budget_id = ? AND category = ?", f.budget.ID, "Salary").Error)
	requireDecimalEqual(t, "1500", entry.Amount)
	require.Equal(t, string(models.EntryDebit), entry.Type)
}

func TestVerifyPaymentRejectsIncompleteStatus(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		Pidx:            "px-3",
		PurchaseOrderID: f.project.ID.String(),
		Status:          "User canceled",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	f.gateway.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestVerifyPaymentRequiresGatewayConfirmation(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.gateway.On("Initiate", mock.Anything, mock.Anything).
		Return(&khalti.InitiateResponse{Pidx: "px-4"}, nil)
	f.gateway.On("Lookup", mock.Anything, "px-4").
		Return(&khalti.LookupResponse{Pidx: "px-4", Status: "Pending"}, nil)

	init, err := f.svc.InitializePayment(ctx, &InitializePaymentInput{
		WorkerID:    f.worker.ID,
		ProjectID:   f.project.ID,
		TotalSalary: decimal.RequireFromString("1500"),
		Month:       "March",
		Year:        2025,
		ReturnURL:   "https://app.example.com/verify",
		WebsiteURL:  "https://app.example.com",
	})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, &VerifyPaymentInput{
		Pidx:            "px-4",
		PurchaseOrderID: init.Payment.ID.String(),
		Status:          khalti.StatusCompleted,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	// payment stayed pending, ledger untouched
	var stored models.Payment
	require.NoError(t, f.db.First(&stored, "id = ?", init.Payment.ID).Error)
	require.Equal(t, models.PaymentPending, stored.Status)

	var budget models.Budget
	require.NoError(t, f.db.First(&budget, "id = ?", f.budget.ID).Error)
	requireDecimalEqual(t, "20000", budget.InHand)
}
