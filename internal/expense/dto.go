package expense

import (
	"time"

	errors "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

// MaxAmount is the largest amount the expenses.amount column stores.
var MaxAmount = money.Max(12)

// ExpenseRequest is the body of POST /api/expenses and PUT /api/expenses/{id}.
// Server-owned fields (id, timestamps, joined summaries) are ignored.
type ExpenseRequest struct {
	ProjectID   string       `json:"projectId"`
	UserID      string       `json:"userId"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	ExpenseDate time.Time    `json:"expenseDate"`
	ReceiptURL  string       `json:"receiptUrl"`
	Status      string       `json:"status"`
}

func (dto ExpenseRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required().MaxLength(64)
	v.Field("projectId", dto.ProjectID).Required().MaxLength(64)
	v.Field("category", dto.Category).Required().MaxLength(100).Code(errors.ErrCodeInvalidCategory)
	v.Field("description", dto.Description).MaxLength(500).Code(errors.ErrCodeInvalidDescription)
	v.Field("amount", dto.Amount).
		PositiveAmount(errors.ErrCodeInvalidAmount).
		MaxAmount(MaxAmount, errors.ErrCodeInvalidAmount)
	v.Field("receiptUrl", dto.ReceiptURL).URL()
	v.Field("status", dto.Status).OneOf(Statuses...)
	return v.Validate()
}

type ListResponse struct {
	Expenses []Expense `json:"expenses"`
	Success  bool      `json:"success"`
}

type PageResponse struct {
	Expenses   []Expense `json:"expenses"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"totalPages"`
	Success    bool      `json:"success"`
}

type DetailResponse struct {
	Expense *Expense `json:"expense"`
	Message string   `json:"message,omitempty"`
	Success bool     `json:"success"`
}

func NewPageResponse(p *Page) PageResponse {
	return PageResponse{
		Expenses:   nonNil(p.Expenses),
		TotalCount: p.TotalCount,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: p.TotalPages,
		Success:    true,
	}
}

// nonNil keeps empty listings rendered as [] rather than null.
func nonNil(expenses []Expense) []Expense {
	if expenses == nil {
		return []Expense{}
	}
	return expenses
}
