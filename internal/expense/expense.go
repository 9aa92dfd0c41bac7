package expense

import (
	"math"
	"time"

	expenseDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/expense"
	"github.com/frahmantamala/project-expenses/internal/core/ids"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusReimbursed = "reimbursed"

	// LegacyListLimit bounds the non-paginated listing.
	LegacyListLimit = 100

	DefaultPage     = 0
	DefaultPageSize = 20
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusReimbursed}

// Expense is an immutable value: construct it with NewExpense and derive
// updated copies with Revise.
type Expense struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	UserID      string          `json:"userId"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      money.Amount    `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	ReceiptURL  string          `json:"receiptUrl"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Project     *ProjectSummary `json:"project,omitempty"`
	User        *UserSummary    `json:"user,omitempty"`
}

// ProjectSummary is the joined, read-only view of the referenced project.
type ProjectSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"clientName"`
	Status     string `json:"status"`
}

// UserSummary is the joined, read-only view of the owning user.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Page is one window of an owner's expenses, newest first.
type Page struct {
	Expenses   []Expense
	TotalCount int
	Page       int
	Size       int
	TotalPages int
}

func TotalPages(totalCount, size int) int {
	if size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(size)))
}

// NewExpense builds a new record with a generated id and server timestamps.
func NewExpense(req ExpenseRequest, now time.Time) Expense {
	now = now.UTC()
	e := Expense{
		ID:          ids.New(ids.PrefixExpense),
		ProjectID:   req.ProjectID,
		UserID:      req.UserID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount.Normalize(),
		ExpenseDate: req.ExpenseDate.UTC(),
		ReceiptURL:  req.ReceiptURL,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = now
	}
	return e
}

// Revise returns a copy of e with the mutable fields replaced by req. The id,
// owner and creation time are kept; joined summaries are dropped because they
// may no longer match the new project.
func (e Expense) Revise(req ExpenseRequest, now time.Time) Expense {
	revised := e
	revised.ProjectID = req.ProjectID
	revised.Category = req.Category
	revised.Description = req.Description
	revised.Amount = req.Amount.Normalize()
	revised.ExpenseDate = req.ExpenseDate.UTC()
	revised.ReceiptURL = req.ReceiptURL
	revised.Status = req.Status
	revised.UpdatedAt = now.UTC()
	revised.Project = nil
	revised.User = nil
	if revised.Status == "" {
		revised.Status = StatusPending
	}
	if revised.ExpenseDate.IsZero() {
		revised.ExpenseDate = e.ExpenseDate
	}
	return revised
}

func (e Expense) clone() Expense {
	cp := e
	if e.Project != nil {
		p := *e.Project
		cp.Project = &p
	}
	if e.User != nil {
		u := *e.User
		cp.User = &u
	}
	return cp
}

func cloneAll(expenses []Expense) []Expense {
	if expenses == nil {
		return nil
	}
	result := make([]Expense, len(expenses))
	for i, e := range expenses {
		result[i] = e.clone()
	}
	return result
}

func ToDataModel(e Expense) expenseDatamodel.Expense {
	return expenseDatamodel.Expense{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		UserID:      e.UserID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		ReceiptURL:  e.ReceiptURL,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e expenseDatamodel.Expense) Expense {
	return Expense{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		UserID:      e.UserID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate.UTC(),
		ReceiptURL:  e.ReceiptURL,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

// FromRow maps a joined row, attaching summaries only when the joined
// record exists.
func FromRow(row expenseDatamodel.ExpenseRow) Expense {
	e := FromDataModel(row.Expense)
	if row.JoinedProjectID.Valid {
		e.Project = &ProjectSummary{
			ID:         row.JoinedProjectID.String,
			Name:       row.ProjectName.String,
			ClientName: row.ClientName.String,
			Status:     row.ProjectStatus.String,
		}
	}
	if row.JoinedUserID.Valid {
		e.User = &UserSummary{
			ID:    row.JoinedUserID.String,
			Name:  row.UserName.String,
			Email: row.UserEmail.String,
		}
	}
	return e
}

func FromRows(rows []expenseDatamodel.ExpenseRow) []Expense {
	result := make([]Expense, len(rows))
	for i, row := range rows {
		result[i] = FromRow(row)
	}
	return result
}
