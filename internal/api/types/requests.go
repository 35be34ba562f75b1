package types

import "github.com/shopspring/decimal"

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=builder client"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectCreateRequest struct {
	ProjectName string          `json:"projectName" validate:"required"`
	OwnerName   string          `json:"ownerName" validate:"required"`
	Budget      decimal.Decimal `json:"budget" validate:"required"`
	Location    string          `json:"location"`
	StartDate   string          `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string          `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type ProjectShareRequest struct {
	ProjectID      string `json:"projectId" validate:"required,uuid4"`
	ClientUsername string `json:"clientUsername" validate:"required"`
}

// AddTransactionRequest is validated by hand in the handler so a
// missing field and a present-but-invalid one report differently.
// Amount is a pointer for that reason: nil means the key was absent.
type AddTransactionRequest struct {
	BudgetID string           `json:"budgetId"`
	VendorID string           `json:"vendorId"`
	Amount   *decimal.Decimal `json:"amount"`
	Type     string           `json:"type"`
	Category string           `json:"category"`
	Note     string           `json:"note"`
}

type VendorCreateRequest struct {
	VendorName  string `json:"vendorName" validate:"required"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email" validate:"omitempty,email"`
	Contact     string `json:"contact"`
	Address     string `json:"address"`
	Profile     string `json:"profile"`
}

type WorkerCreateRequest struct {
	ProjectID string          `json:"projectId" validate:"required,uuid4"`
	Name      string          `json:"name" validate:"required"`
	Contact   string          `json:"contact"`
	Salary    decimal.Decimal `json:"salary"`
}

type AttendanceRequest struct {
	WorkerID string `json:"workerId" validate:"required,uuid4"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Present  *bool  `json:"present"`
}

type InitializePaymentRequest struct {
	WorkerID    string          `json:"workerId" validate:"required,uuid4"`
	ProjectID   string          `json:"projectId" validate:"required,uuid4"`
	TotalSalary decimal.Decimal `json:"totalSalary" validate:"required"`
	Month       string          `json:"month" validate:"required"`
	Year        int             `json:"year" validate:"required,min=2000"`
	ReturnURL   string          `json:"returnUrl" validate:"required,url"`
	WebsiteURL  string          `json:"websiteUrl" validate:"required,url"`
}
